package engine

import (
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"
)

// ErrNoDishes is returned by Check when none of the requested dish ids
// resolve to an active dish. Calculate reports the same condition as a
// warning instead, so partial front-end state stays recoverable.
var ErrNoDishes = errors.New("no active dishes found for the given IDs")

// Calculator runs the portioning pipeline against one catalogue and one
// settings source. It is safe for concurrent use as long as both
// dependencies are.
type Calculator struct {
	Catalogue Catalogue
	Settings  SettingsSource
}

func New(cat Catalogue, settings SettingsSource) *Calculator {
	return &Calculator{Catalogue: cat, Settings: settings}
}

func uniqueCategoryIDs(dishes []DishInput) []int {
	order, _ := groupByCategory(dishes)
	return order
}

func filterPool(dishes []DishInput, pool Pool) []DishInput {
	var out []DishInput
	for _, d := range dishes {
		if d.Pool == pool {
			out = append(out, d)
		}
	}
	return out
}

// menuWarnings flags menus missing the categories every event is expected
// to carry.
func menuWarnings(dishes []DishInput) []string {
	warnings := []string{}
	hasCurry, hasRice := false, false
	for _, d := range dishes {
		name := strings.ToLower(d.CategoryName)
		if strings.Contains(name, "curry") {
			hasCurry = true
		}
		if strings.Contains(name, "rice") {
			hasRice = true
		}
	}
	if !hasCurry {
		warnings = append(warnings, "Menu has no curry — at least one curry dish is recommended.")
	}
	if !hasRice {
		warnings = append(warnings, "Menu has no rice — at least one rice dish is recommended.")
	}
	return warnings
}

// Calculate runs the full pipeline:
//  1. resolve settings and constraints for the present categories
//  2. per budgetised pool: category budgets -> pool ceiling -> popularity split
//  3. service pool: fixed per-person amounts
//  4. category constraints (all dishes), then global caps (non-service)
//  5. guest-mix expansion
func (c *Calculator) Calculate(req Request) (*Result, error) {
	dishes, err := c.Catalogue.LoadDishes(req.DishIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load dishes")
	}
	if len(dishes) == 0 {
		return &Result{
			Portions:           []Portion{},
			Warnings:           []string{"No active dishes found for the given IDs."},
			AdjustmentsApplied: []string{},
		}, nil
	}

	settings, err := c.Settings.Resolve(uniqueCategoryIDs(dishes))
	if err != nil {
		return nil, errors.Wrap(err, "resolve settings")
	}
	constraints, err := c.Settings.Constraints(req.ConstraintOverrides)
	if err != nil {
		return nil, errors.Wrap(err, "resolve constraints")
	}

	adjustments := append([]string{}, settings.ProfileAdjustments...)
	warnings := menuWarnings(dishes)

	portions := map[int]float64{}

	for _, pool := range BudgetedPools {
		poolDishes := filterPool(dishes, pool)
		if len(poolDishes) == 0 {
			continue
		}
		baselines, err := c.Catalogue.PoolBaselines(pool)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s pool baselines", pool)
		}

		budgets, catOrder, adj := establishCategoryBudgets(
			poolDishes, baselines, settings.GrowthRate, settings.RedistributionFraction, c.Catalogue)
		adjustments = append(adjustments, adj...)

		budgets, scale, adj := applyPoolCeiling(budgets, catOrder, settings.PoolCeilings[pool], poolDishes)
		adjustments = append(adjustments, adj...)

		for dishID, grams := range splitByPopularity(poolDishes, budgets, settings.PopularityStrength, scale) {
			portions[dishID] = grams
		}
	}

	for _, d := range dishes {
		if d.Pool != PoolService {
			continue
		}
		if d.FixedPortionGrams != nil {
			portions[d.ID] = *d.FixedPortionGrams
		} else {
			portions[d.ID] = d.DefaultPortionGrams
		}
	}

	adjustments = append(adjustments, enforceCategoryConstraints(portions, dishes, constraints)...)

	nonService := []DishInput{}
	for _, d := range dishes {
		if d.Pool != PoolService {
			nonService = append(nonService, d)
		}
	}
	if len(nonService) > 0 {
		capWarnings, capAdjustments := enforceGlobalConstraints(portions, nonService, constraints)
		warnings = append(warnings, capWarnings...)
		adjustments = append(adjustments, capAdjustments...)
	}

	bigEatersMult := 1.0
	if req.BigEaters {
		bigEatersMult = 1.0 + req.BigEatersPercentage/100.0
		adjustments = append(adjustments, fmt.Sprintf(
			"Big eaters: all portions increased by %.0f%%", req.BigEatersPercentage))
	}

	rows, totals := expandPortions(dishes, portions, req.Guests, expandOpts{
		bigEatersMult: bigEatersMult,
		ladiesMult:    settings.LadiesMultiplier,
		withCost:      true,
	})

	return &Result{
		Portions:           rows,
		Totals:             totals,
		Warnings:           warnings,
		AdjustmentsApplied: adjustments,
	}, nil
}
