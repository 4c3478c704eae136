// Package factory provides the generic type registry used to build pluggable
// parts of the promotion service (discount strategies, metrics recorders,
// audit stores) from configuration. Each part is declared by a type string
// and a map of raw settings; factories decode the settings into typed
// structs with Decode and return the concrete implementation.
//
//	reg := factory.NewRegistry[discount.Strategy]()
//	reg.Register("fraction", func(conf map[string]any) (discount.Strategy, error) {
//	    var c struct{ PricePercent int `json:"price_percent"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return discount.NewFractionDiscount(c.PricePercent, "")
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "fraction", Conf: map[string]any{"price_percent": 50}})
package factory
