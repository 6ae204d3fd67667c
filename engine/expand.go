package engine

import (
	"fmt"
	"math"
)

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

type expandOpts struct {
	bigEatersMult float64
	ladiesMult    float64
	withCost      bool
}

// expandPortions turns per-person portions into per-gent / per-lady rows
// and aggregate totals. Grams round to 1 dp, money to 2 dp. Rows come out
// in dish order.
func expandPortions(dishes []DishInput, perPerson map[int]float64, guests GuestMix,
	opts expandOpts) ([]Portion, Totals) {

	rows := make([]Portion, 0, len(dishes))
	totalPeople := float64(guests.Total())

	var totalFoodWeight, totalCost, totalPerGent, totalPerLady, totalProtein float64

	for _, d := range dishes {
		gramsGent := round1(perPerson[d.ID] * opts.bigEatersMult)
		gramsLady := round1(gramsGent * opts.ladiesMult)
		dishTotal := gramsGent*float64(guests.Gents) + gramsLady*float64(guests.Ladies)

		gramsPerPerson := 0.0
		if totalPeople > 0 {
			gramsPerPerson = round1(dishTotal / totalPeople)
		}

		row := Portion{
			DishID:         d.ID,
			DishName:       d.Name,
			Category:       d.CategoryName,
			Pool:           d.Pool,
			Unit:           d.Unit,
			GramsPerPerson: gramsPerPerson,
			GramsPerGent:   gramsGent,
			GramsPerLady:   gramsLady,
			TotalGrams:     round1(dishTotal),
		}
		if opts.withCost {
			row.ProteinType = d.ProteinType
			row.CostPerGent = round2(gramsGent * d.CostPerGram)
			row.TotalCost = round2(dishTotal * d.CostPerGram)
			totalCost += row.TotalCost
		}
		rows = append(rows, row)

		totalPerGent += gramsGent
		totalPerLady += gramsLady
		totalFoodWeight += dishTotal
		if d.Pool == PoolProtein {
			totalProtein += dishTotal
		}
	}

	foodPerPerson := 0.0
	proteinPerPerson := 0.0
	if totalPeople > 0 {
		foodPerPerson = round1(totalFoodWeight / totalPeople)
		proteinPerPerson = round1(totalProtein / totalPeople)
	}

	return rows, Totals{
		FoodPerGentGrams:      round1(totalPerGent),
		FoodPerLadyGrams:      round1(totalPerLady),
		FoodPerPersonGrams:    foodPerPerson,
		ProteinPerPersonGrams: proteinPerPerson,
		TotalFoodWeightGrams:  round1(totalFoodWeight),
		TotalCost:             round2(totalCost),
	}
}

// BuildTemplateResult assembles a calculation-shaped result from stored
// template portion snapshots, bypassing the allocator entirely.
func BuildTemplateResult(menuName string, dishes []DishInput, stored map[int]float64,
	guests GuestMix, ladiesMultiplier float64) *Result {

	rows, totals := expandPortions(dishes, stored, guests, expandOpts{
		bigEatersMult: 1.0,
		ladiesMult:    ladiesMultiplier,
		withCost:      true,
	})

	return &Result{
		Portions: rows,
		Totals:   totals,
		Warnings: []string{},
		AdjustmentsApplied: []string{
			fmt.Sprintf("Showing stored template portions for '%s'", menuName),
		},
		Source: "template",
	}
}
