package discount

import (
	"fmt"

	"github.com/kilianp07/promo/core/factory"
)

// Festivals of the built-in promotion table.
const (
	AprilFoolsDay     = "April Fools' Day"
	SpringFestival    = "Spring Festival"
	MidAutumnFestival = "Mid-Autumn Festival"
)

// Promotion binds a festival to a strategy declared in configuration.
type Promotion struct {
	Festival string               `json:"festival"`
	Strategy factory.ModuleConfig `json:"strategy"`
}

var strategyTypes = factory.NewRegistry[Strategy]()

func init() {
	strategyTypes.MustRegister("one_off", func(map[string]any) (Strategy, error) {
		return OneOffDiscount(), nil
	})
	strategyTypes.MustRegister("three_off", func(map[string]any) (Strategy, error) {
		return ThreeOffDiscount(), nil
	})
	strategyTypes.MustRegister("seven_off", func(map[string]any) (Strategy, error) {
		return SevenOffDiscount(), nil
	})
	strategyTypes.MustRegister("fraction", func(conf map[string]any) (Strategy, error) {
		var c struct {
			PricePercent int    `json:"price_percent"`
			Template     string `json:"template"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewFractionDiscount(c.PricePercent, c.Template)
	})
}

// RegisterStrategyType makes a strategy type available to configuration.
func RegisterStrategyType(name string, f factory.Factory[Strategy]) error {
	return strategyTypes.Register(name, f)
}

// StrategyTypes lists the strategy type names known to NewStrategy.
func StrategyTypes() []string { return strategyTypes.Types() }

// NewStrategy builds a strategy from its module configuration.
func NewStrategy(cfg factory.ModuleConfig) (Strategy, error) {
	return strategyTypes.Create(cfg)
}

// DefaultPromotions returns the built-in promotion table.
func DefaultPromotions() []Promotion {
	return []Promotion{
		{Festival: AprilFoolsDay, Strategy: factory.ModuleConfig{Type: "one_off"}},
		{Festival: SpringFestival, Strategy: factory.ModuleConfig{Type: "three_off"}},
		{Festival: MidAutumnFestival, Strategy: factory.ModuleConfig{Type: "seven_off"}},
	}
}

// NewDefaultRegistry returns a registry populated with the built-in table.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	_ = r.Register(AprilFoolsDay, OneOffDiscount())
	_ = r.Register(SpringFestival, ThreeOffDiscount())
	_ = r.Register(MidAutumnFestival, SevenOffDiscount())
	return r
}

// Build creates a registry from configured promotions. An empty list falls
// back to DefaultPromotions. Later entries for the same festival win.
func Build(promos []Promotion, opts ...Option) (*Registry, error) {
	if len(promos) == 0 {
		promos = DefaultPromotions()
	}
	r := NewRegistry(opts...)
	for i, p := range promos {
		if p.Festival == "" {
			return nil, fmt.Errorf("promotion %d: festival is required", i)
		}
		s, err := NewStrategy(p.Strategy)
		if err != nil {
			return nil, fmt.Errorf("promotion %q: %w", p.Festival, err)
		}
		if err := r.Register(p.Festival, s); err != nil {
			return nil, err
		}
	}
	return r, nil
}
