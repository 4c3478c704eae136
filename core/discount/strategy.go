package discount

import (
	"fmt"
	"strconv"
	"strings"
)

// Announcement is the message a strategy produces for a festival.
type Announcement struct {
	Festival string `json:"festival"`
	// PricePercent is the share of the original price the customer pays.
	PricePercent int    `json:"price_percent"`
	Text         string `json:"text"`
}

// Strategy produces the discount announcement for a festival. Implementations
// hold no mutable state and never fail.
type Strategy interface {
	ApplyDiscount(festival string) Announcement
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(festival string) Announcement

// ApplyDiscount calls f.
func (f StrategyFunc) ApplyDiscount(festival string) Announcement { return f(festival) }

// Priced is implemented by strategies with a fixed price fraction.
type Priced interface {
	PricePercent() int
}

// Template placeholders understood by FractionDiscount.
const (
	FestivalPlaceholder = "{festival}"
	PercentPlaceholder  = "{percent}"
)

const defaultTemplate = "Today is {festival}; everything is {percent}% of price!"

// FractionDiscount announces a fixed price fraction using a message template.
type FractionDiscount struct {
	percent  int
	template string
}

// NewFractionDiscount builds a strategy charging percent of the original
// price. An empty template selects a generic message.
func NewFractionDiscount(percent int, template string) (FractionDiscount, error) {
	if percent < 1 || percent > 100 {
		return FractionDiscount{}, fmt.Errorf("price percent %d out of range 1..100", percent)
	}
	if template == "" {
		template = defaultTemplate
	}
	if !strings.Contains(template, FestivalPlaceholder) {
		return FractionDiscount{}, fmt.Errorf("template %q lacks %s", template, FestivalPlaceholder)
	}
	return FractionDiscount{percent: percent, template: template}, nil
}

// OneOffDiscount charges 10% of the price.
func OneOffDiscount() FractionDiscount {
	return FractionDiscount{
		percent:  10,
		template: "Today is {festival}; entire store is {percent}% of price, clearance sale, selling at a loss!",
	}
}

// ThreeOffDiscount charges 30% of the price.
func ThreeOffDiscount() FractionDiscount {
	return FractionDiscount{
		percent:  30,
		template: "Today is {festival}; everything in the mall is {percent}% of price, gone in a flash!",
	}
}

// SevenOffDiscount charges 70% of the price.
func SevenOffDiscount() FractionDiscount {
	return FractionDiscount{
		percent:  70,
		template: "Today is {festival}; everything in the mall is {percent}% of price, come and grab it!",
	}
}

// PricePercent returns the share of the original price the customer pays.
func (d FractionDiscount) PricePercent() int { return d.percent }

// ApplyDiscount renders the template for festival.
func (d FractionDiscount) ApplyDiscount(festival string) Announcement {
	r := strings.NewReplacer(
		FestivalPlaceholder, festival,
		PercentPlaceholder, strconv.Itoa(d.percent),
	)
	return Announcement{
		Festival:     festival,
		PricePercent: d.percent,
		Text:         r.Replace(d.template),
	}
}
