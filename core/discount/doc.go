// Package discount maps festival names to discount strategies.
//
// A Registry holds one Strategy per festival. Execute looks the festival up,
// lets the strategy build its Announcement and hands the announcement to the
// configured Announcers. Festivals without a registered strategy fail with a
// *NoActivePromotionError that matches ErrNoActivePromotion.
//
// Festival keys are compared exactly; no case or whitespace folding is done.
package discount
