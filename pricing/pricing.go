// Package pricing computes the per-head price adjustment for a modified
// menu template: select the applicable price tier by guest count, then sum
// per-dish surcharges and discounts for the dish-set diff.
package pricing

import (
	"fmt"
	"math"

	"github.com/Laisky/errors/v2"
)

// ErrNoTier is returned when no tier's guest threshold covers the count.
var ErrNoTier = errors.New("no applicable price tier for guest count")

// Tier is one guest-count threshold with its fixed price per head.
type Tier struct {
	MinGuests    int     `json:"min_guests"`
	PricePerHead float64 `json:"price_per_head"`
}

// DishCharge carries the surcharge/discount figures for one dish. The
// dish-level values win when non-zero, otherwise the category defaults
// apply.
type DishCharge struct {
	DishID                    int
	DishName                  string
	AdditionSurcharge         float64
	RemovalDiscount           float64
	CategoryAdditionSurcharge float64
	CategoryRemovalDiscount   float64
}

// BreakdownItem is one line of the adjustment: a signed per-head amount for
// an added or removed dish.
type BreakdownItem struct {
	DishID   int     `json:"dish_id"`
	DishName string  `json:"dish_name"`
	Action   string  `json:"action"`
	Amount   float64 `json:"amount"`
	Source   string  `json:"source"`
}

// Adjustment is the full price-check response payload.
type Adjustment struct {
	TierPrice       float64         `json:"tier_price"`
	TierLabel       string          `json:"tier_label"`
	Breakdown       []BreakdownItem `json:"breakdown"`
	TotalAdjustment float64         `json:"total_adjustment"`
	AdjustedPrice   float64         `json:"adjusted_price"`
}

// SelectTier picks the tier with the highest MinGuests not exceeding the
// guest count. Tiers are scanned as given; the selector never re-sorts.
func SelectTier(tiers []Tier, guestCount int) (Tier, error) {
	best := Tier{MinGuests: -1}
	for _, t := range tiers {
		if t.MinGuests <= guestCount && t.MinGuests > best.MinGuests {
			best = t
		}
	}
	if best.MinGuests < 0 {
		return Tier{}, errors.WithStack(ErrNoTier)
	}
	return best, nil
}

// roundToStep rounds to the nearest multiple of step. Steps below 1 mean
// "no rounding beyond whole currency units" and collapse to 1.
func roundToStep(v, step float64) float64 {
	if step < 1 {
		step = 1
	}
	return math.Round(v/step) * step
}

func diff(from, to []int) []int {
	have := make(map[int]bool, len(to))
	for _, id := range to {
		have[id] = true
	}
	var out []int
	for _, id := range from {
		if !have[id] {
			out = append(out, id)
		}
	}
	return out
}

// Adjust computes the adjusted per-head price for a modified dish set
// against the template's original set. roundingStep comes from site
// settings; pass 1 for plain whole-unit rounding.
func Adjust(tiers []Tier, guestCount int, original, modified []int,
	charges map[int]DishCharge, roundingStep float64) (*Adjustment, error) {

	tier, err := SelectTier(tiers, guestCount)
	if err != nil {
		return nil, err
	}

	added := diff(modified, original)
	removed := diff(original, modified)

	breakdown := []BreakdownItem{}
	total := 0.0

	for _, id := range added {
		charge := charges[id]
		amount := charge.AdditionSurcharge
		source := "dish"
		if amount == 0 {
			amount = charge.CategoryAdditionSurcharge
			source = "category"
		}
		total += amount
		breakdown = append(breakdown, BreakdownItem{
			DishID:   id,
			DishName: charge.DishName,
			Action:   "added",
			Amount:   amount,
			Source:   source,
		})
	}

	for _, id := range removed {
		charge := charges[id]
		amount := charge.RemovalDiscount
		source := "dish"
		if amount == 0 {
			amount = charge.CategoryRemovalDiscount
			source = "category"
		}
		total -= amount
		breakdown = append(breakdown, BreakdownItem{
			DishID:   id,
			DishName: charge.DishName,
			Action:   "removed",
			Amount:   -amount,
			Source:   source,
		})
	}

	return &Adjustment{
		TierPrice:       tier.PricePerHead,
		TierLabel:       fmt.Sprintf("%d+ guests", tier.MinGuests),
		Breakdown:       breakdown,
		TotalAdjustment: total,
		AdjustedPrice:   roundToStep(tier.PricePerHead+total, roundingStep),
	}, nil
}
