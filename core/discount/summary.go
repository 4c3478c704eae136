package discount

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the price fractions of a registry.
type Summary struct {
	Festivals int `json:"festivals"`
	// Priced counts festivals whose strategy has a fixed fraction; the
	// statistics below cover those only.
	Priced             int     `json:"priced"`
	MeanPricePercent   float64 `json:"mean_price_percent"`
	StdDevPricePercent float64 `json:"stddev_price_percent"`
	MinPricePercent    float64 `json:"min_price_percent"`
	MaxPricePercent    float64 `json:"max_price_percent"`
}

// Summarize computes price statistics over the registered strategies.
func Summarize(r *Registry) Summary {
	entries := r.Entries()
	sum := Summary{Festivals: len(entries)}
	var percents []float64
	for _, e := range entries {
		if e.PricePercent > 0 {
			percents = append(percents, float64(e.PricePercent))
		}
	}
	sum.Priced = len(percents)
	if len(percents) == 0 {
		return sum
	}
	sum.MinPricePercent = floats.Min(percents)
	sum.MaxPricePercent = floats.Max(percents)
	if len(percents) == 1 {
		sum.MeanPricePercent = percents[0]
		return sum
	}
	sum.MeanPricePercent, sum.StdDevPricePercent = stat.MeanStdDev(percents, nil)
	return sum
}
