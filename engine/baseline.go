package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// groupByCategory groups dishes by category id, preserving the first-seen
// order of categories so downstream messages come out deterministically.
func groupByCategory(dishes []DishInput) ([]int, map[int][]DishInput) {
	order := []int{}
	byCategory := map[int][]DishInput{}
	for _, d := range dishes {
		if _, ok := byCategory[d.CategoryID]; !ok {
			order = append(order, d.CategoryID)
		}
		byCategory[d.CategoryID] = append(byCategory[d.CategoryID], d)
	}
	return order, byCategory
}

// establishCategoryBudgets computes the per-category budget for one pool:
// grown = baseline * (1 + growthRate * (n-1)), floored at n * minPerDish,
// then redistributes a fraction of the absent categories' baselines to the
// present ones proportionally to their current budgets.
func establishCategoryBudgets(dishes []DishInput, poolBaselines map[int]float64,
	growthRate, redistributionFraction float64, cat Catalogue) (map[int]float64, []int, []string) {

	adjustments := []string{}
	catOrder, byCategory := groupByCategory(dishes)

	budgets := map[int]float64{}
	for _, catID := range catOrder {
		catDishes := byCategory[catID]
		ref := catDishes[0]
		n := float64(len(catDishes))
		minTotal := n * ref.MinPerDishGrams
		grown := ref.BaselineBudgetGrams * (1 + growthRate*(n-1))
		budget := math.Max(grown, minTotal)
		budgets[catID] = budget

		if minTotal > grown {
			adjustments = append(adjustments, fmt.Sprintf(
				"%s budget increased: %d dishes need at least %.0fg each, so budget grew from %.0fg to %.0fg",
				ref.CategoryName, len(catDishes), ref.MinPerDishGrams, grown, minTotal))
		} else if len(catDishes) > 1 && growthRate > 0 {
			adjustments = append(adjustments, fmt.Sprintf(
				"%s budget grew: %d dishes expanded baseline from %.0fg to %.0fg",
				ref.CategoryName, len(catDishes), ref.BaselineBudgetGrams, grown))
		}
	}

	if len(poolBaselines) > 0 {
		absentIDs := []int{}
		absentRaw := 0.0
		for catID, baseline := range poolBaselines {
			if _, present := budgets[catID]; !present {
				absentIDs = append(absentIDs, catID)
				absentRaw += baseline
			}
		}
		absent := absentRaw * redistributionFraction
		if absent > 0 {
			sumPresent := 0.0
			for _, b := range budgets {
				sumPresent += b
			}
			if sumPresent > 0 {
				for _, catID := range catOrder {
					budgets[catID] += absent * (budgets[catID] / sumPresent)
				}
				sort.Ints(absentIDs)
				absentNames := strings.Join(cat.CategoryNames(absentIDs), ", ")
				if absentNames == "" {
					absentNames = "other categories"
				}
				pct := int(math.Round(redistributionFraction * 100))
				adjustments = append(adjustments, fmt.Sprintf(
					"No %s on menu — %d%% of their %.0fg budget (%.0fg) was spread across the categories that are present",
					absentNames, pct, absentRaw, absent))
			}
		}
	}

	return budgets, catOrder, adjustments
}

// applyPoolCeiling scales all category budgets down proportionally when
// their sum exceeds the pool ceiling. The returned scale also applies to
// per-dish floors in the popularity split.
func applyPoolCeiling(budgets map[int]float64, catOrder []int, ceiling float64,
	dishes []DishInput) (map[int]float64, float64, []string) {

	poolTotal := 0.0
	for _, b := range budgets {
		poolTotal += b
	}
	if poolTotal <= ceiling {
		return budgets, 1.0, nil
	}

	scale := ceiling / poolTotal
	reduced := make(map[int]float64, len(budgets))
	for catID, b := range budgets {
		reduced[catID] = b * scale
	}

	_, byCategory := groupByCategory(dishes)
	detailParts := make([]string, 0, len(catOrder))
	for _, catID := range catOrder {
		catName := fmt.Sprintf("cat_%d", catID)
		if catDishes := byCategory[catID]; len(catDishes) > 0 {
			catName = catDishes[0].CategoryName
		}
		detailParts = append(detailParts, fmt.Sprintf("%s %.0fg → %.0fg", catName, budgets[catID], reduced[catID]))
	}

	reductionPct := int(math.Round((1 - scale) * 100))
	adjustments := []string{fmt.Sprintf(
		"Total exceeded %.0fg limit — all portions reduced by %d%% (%s)",
		ceiling, reductionPct, strings.Join(detailParts, ", "))}

	return reduced, scale, adjustments
}

// splitByPopularity divides each category budget among its dishes. With
// popularity disabled (strength <= 0) or a single dish the split is equal;
// otherwise each dish gets a blend of the equal share and its proportional
// share, floored at the (ceiling-scaled) per-dish minimum with the
// remainder renormalised over non-floored dishes.
func splitByPopularity(dishes []DishInput, budgets map[int]float64,
	popularityStrength, scaleFactor float64) map[int]float64 {

	portions := map[int]float64{}
	catOrder, byCategory := groupByCategory(dishes)

	for _, catID := range catOrder {
		catDishes := byCategory[catID]
		budget := budgets[catID]
		n := len(catDishes)
		if n == 0 {
			continue
		}

		effectiveMin := catDishes[0].MinPerDishGrams * scaleFactor

		if popularityStrength <= 0 || n == 1 {
			share := budget / float64(n)
			for _, d := range catDishes {
				portions[d.ID] = math.Max(share, effectiveMin)
			}
			continue
		}

		totalPopularity := 0.0
		for _, d := range catDishes {
			totalPopularity += d.Popularity
		}
		equalShare := budget / float64(n)

		for _, d := range catDishes {
			rawShare := equalShare
			if totalPopularity > 0 {
				rawShare = budget * (d.Popularity / totalPopularity)
			}
			portions[d.ID] = equalShare*(1-popularityStrength) + rawShare*popularityStrength
		}

		flooredIDs := map[int]bool{}
		flooredTotal := 0.0
		for _, d := range catDishes {
			if portions[d.ID] < effectiveMin {
				portions[d.ID] = effectiveMin
				flooredIDs[d.ID] = true
				flooredTotal += effectiveMin
			}
		}

		if len(flooredIDs) > 0 && len(flooredIDs) < n {
			remaining := budget - flooredTotal
			if remaining > 0 {
				nonFlooredTotal := 0.0
				for _, d := range catDishes {
					if !flooredIDs[d.ID] {
						nonFlooredTotal += portions[d.ID]
					}
				}
				if nonFlooredTotal > 0 {
					rescale := remaining / nonFlooredTotal
					for _, d := range catDishes {
						if !flooredIDs[d.ID] {
							portions[d.ID] *= rescale
						}
					}
				}
			}
		}
	}

	return portions
}
