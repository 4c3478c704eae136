package discount

import "errors"

// ErrNoActivePromotion matches every *NoActivePromotionError.
var ErrNoActivePromotion = errors.New("no active promotion")

// NoActivePromotionError is returned by Execute for an unregistered festival.
type NoActivePromotionError struct {
	Festival string
}

func (e *NoActivePromotionError) Error() string {
	return e.Festival + ": no active promotion in the store"
}

// Is reports whether target is ErrNoActivePromotion.
func (e *NoActivePromotionError) Is(target error) bool {
	return target == ErrNoActivePromotion
}
