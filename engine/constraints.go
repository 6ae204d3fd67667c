package engine

import "fmt"

// enforceCategoryConstraints applies per-category max-per-dish caps and
// category total caps to all dishes, service pool included. Portions are
// updated in place.
func enforceCategoryConstraints(portions map[int]float64, dishes []DishInput,
	constraints ResolvedConstraints) []string {

	adjustments := []string{}
	catOrder, byCategory := groupByCategory(dishes)

	for _, catID := range catOrder {
		maxPortion, ok := constraints.CategoryMaxPortions[catID]
		if !ok {
			continue
		}
		for _, d := range byCategory[catID] {
			if portions[d.ID] > maxPortion {
				portions[d.ID] = maxPortion
				adjustments = append(adjustments, fmt.Sprintf(
					"%s capped at %.0fg (max per dish for %s)", d.Name, maxPortion, d.CategoryName))
			}
		}
	}

	for _, catID := range catOrder {
		maxTotal, ok := constraints.CategoryMaxTotals[catID]
		if !ok {
			continue
		}
		catDishes := byCategory[catID]
		catTotal := 0.0
		for _, d := range catDishes {
			catTotal += portions[d.ID]
		}
		if catTotal <= maxTotal {
			continue
		}

		catMin := constraints.CategoryMinPortions[catID]
		floorTotal := float64(len(catDishes)) * catMin

		if floorTotal >= maxTotal {
			// Every dish above its floor cannot fit; pin all to the floor.
			for _, d := range catDishes {
				portions[d.ID] = catMin
			}
		} else {
			scale := maxTotal / catTotal
			for _, d := range catDishes {
				newVal := portions[d.ID] * scale
				if newVal < catMin {
					newVal = catMin
				}
				portions[d.ID] = newVal
			}
		}

		adjustments = append(adjustments, fmt.Sprintf(
			"%s total reduced from %.0fg to %.0fg (category limit)",
			catDishes[0].CategoryName, catTotal, maxTotal))
	}

	return adjustments
}

// enforceGlobalConstraints applies the global food cap to non-service
// portions, then reports any dish the cap pushed below its effective
// minimum. The min-vs-cap conflict is advisory only.
func enforceGlobalConstraints(portions map[int]float64, dishes []DishInput,
	constraints ResolvedConstraints) ([]string, []string) {

	warnings := []string{}
	adjustments := []string{}

	totalFood := 0.0
	for _, d := range dishes {
		totalFood += portions[d.ID]
	}
	maxFood := constraints.MaxTotalFoodPerPersonGrams
	if totalFood > maxFood {
		scale := maxFood / totalFood
		for _, d := range dishes {
			portions[d.ID] *= scale
		}
		warnings = append(warnings, fmt.Sprintf(
			"Total food was %.0fg per person — reduced to %.0fg limit", totalFood, maxFood))
		adjustments = append(adjustments, fmt.Sprintf(
			"Total food exceeded %.0fg limit — all portions scaled down", maxFood))
	}

	for _, d := range dishes {
		catMin, ok := constraints.CategoryMinPortions[d.CategoryID]
		if !ok {
			catMin = constraints.MinPortionPerDishGrams
		}
		if portions[d.ID] < catMin {
			warnings = append(warnings, fmt.Sprintf(
				"Cannot satisfy both minimum portion (%.0fg) and caps for '%s' (%.0fg). Consider removing a dish.",
				catMin, d.Name, portions[d.ID]))
		}
	}

	return warnings, adjustments
}
