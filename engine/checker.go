package engine

import (
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"
)

// Violation is one checker finding. Only fields relevant to the violation
// type are populated.
type Violation struct {
	Type      string  `json:"type"`
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
	Pool      Pool    `json:"pool,omitempty"`
	DishID    int     `json:"dish_id,omitempty"`
	DishName  string  `json:"dish_name,omitempty"`
	Category  string  `json:"category,omitempty"`
	UserGrams float64 `json:"user_grams,omitempty"`
	Total     float64 `json:"total,omitempty"`
	Ceiling   float64 `json:"ceiling,omitempty"`
	Minimum   float64 `json:"minimum,omitempty"`
	Maximum   float64 `json:"maximum,omitempty"`
	Limit     float64 `json:"limit,omitempty"`
	Cap       float64 `json:"cap,omitempty"`
}

// CheckTotals aggregates the user-supplied portions; no cost fields since
// the checker takes raw grams, not priced dishes.
type CheckTotals struct {
	FoodPerGentGrams     float64 `json:"food_per_gent_grams"`
	FoodPerLadyGrams     float64 `json:"food_per_lady_grams"`
	FoodPerPersonGrams   float64 `json:"food_per_person_grams"`
	TotalFoodWeightGrams float64 `json:"total_food_weight_grams"`
}

// ComparisonRow sets one dish's user portion against the allocator's.
type ComparisonRow struct {
	DishID       int     `json:"dish_id"`
	DishName     string  `json:"dish_name"`
	Category     string  `json:"category"`
	Pool         Pool    `json:"pool"`
	Unit         Unit    `json:"unit"`
	UserGrams    float64 `json:"user_grams"`
	EngineGrams  float64 `json:"engine_grams"`
	DeltaGrams   float64 `json:"delta_grams"`
	DeltaPercent float64 `json:"delta_percent"`
}

// CheckResult is the full checker response: findings, both expansions, and
// a per-dish comparison.
type CheckResult struct {
	Violations           []Violation     `json:"violations"`
	UserPortionsExpanded []Portion       `json:"user_portions_expanded"`
	EnginePortions       []Portion       `json:"engine_portions"`
	Comparison           []ComparisonRow `json:"comparison"`
	UserTotals           CheckTotals     `json:"user_totals"`
	EngineTotals         Totals          `json:"engine_totals"`
}

// CheckRequest carries the calculation inputs plus the user's per-person
// portions keyed by dish id.
type CheckRequest struct {
	Request
	UserPortions map[int]float64
}

func unitLabel(u Unit) string {
	if u == UnitQty {
		return "pcs"
	}
	return "g"
}

// checkViolations validates user portions against pool ceilings, category
// constraints, and the global cap. Findings never mutate the portions.
func checkViolations(userPortions map[int]float64, dishes []DishInput,
	constraints ResolvedConstraints, poolCeilings map[Pool]float64) []Violation {

	violations := []Violation{}

	poolTotals := map[Pool]float64{}
	for _, d := range dishes {
		if d.Pool == PoolService {
			continue
		}
		poolTotals[d.Pool] += userPortions[d.ID]
	}
	for _, pool := range BudgetedPools {
		total, present := poolTotals[pool]
		if !present {
			continue
		}
		ceiling, ok := poolCeilings[pool]
		if !ok || total <= ceiling {
			continue
		}
		title := strings.ToUpper(string(pool[:1])) + string(pool[1:])
		violations = append(violations, Violation{
			Type:     "pool_ceiling",
			Severity: "error",
			Message: fmt.Sprintf("%s pool total is %.0fg per person, exceeds ceiling of %.0fg",
				title, total, ceiling),
			Pool:    pool,
			Total:   round1(total),
			Ceiling: ceiling,
		})
	}

	catOrder, byCategory := groupByCategory(dishes)
	for _, catID := range catOrder {
		catDishes := byCategory[catID]
		catName := catDishes[0].CategoryName
		isQty := catDishes[0].Unit == UnitQty
		label := unitLabel(catDishes[0].Unit)

		// The global gram floor is meaningless for piece-counted items;
		// those are only checked against an explicit category override,
		// which is assumed to be in the right unit already.
		catMin, hasOverride := constraints.CategoryMinPortions[catID]
		applyMin := true
		if !hasOverride {
			if isQty {
				applyMin = false
			} else {
				catMin = constraints.MinPortionPerDishGrams
			}
		}
		if applyMin {
			for _, d := range catDishes {
				userG := userPortions[d.ID]
				if userG < catMin {
					violations = append(violations, Violation{
						Type:     "below_minimum",
						Severity: "warning",
						Message: fmt.Sprintf("%s is %.0f%s, below minimum of %.0f%s for %s",
							d.Name, userG, label, catMin, label, catName),
						DishID:    d.ID,
						DishName:  d.Name,
						UserGrams: round1(userG),
						Minimum:   catMin,
					})
				}
			}
		}

		if maxPortion, ok := constraints.CategoryMaxPortions[catID]; ok {
			for _, d := range catDishes {
				userG := userPortions[d.ID]
				if userG > maxPortion {
					violations = append(violations, Violation{
						Type:     "above_maximum",
						Severity: "error",
						Message: fmt.Sprintf("%s is %.0f%s, exceeds max of %.0f%s for %s",
							d.Name, userG, label, maxPortion, label, catName),
						DishID:    d.ID,
						DishName:  d.Name,
						UserGrams: round1(userG),
						Maximum:   maxPortion,
					})
				}
			}
		}

		if maxTotal, ok := constraints.CategoryMaxTotals[catID]; ok {
			catTotal := 0.0
			for _, d := range catDishes {
				catTotal += userPortions[d.ID]
			}
			if catTotal > maxTotal {
				violations = append(violations, Violation{
					Type:     "category_total",
					Severity: "error",
					Message: fmt.Sprintf("%s total is %.0f%s, exceeds limit of %.0f%s",
						catName, catTotal, label, maxTotal, label),
					Category: catName,
					Total:    round1(catTotal),
					Limit:    maxTotal,
				})
			}
		}
	}

	// Global cap covers weight-based dishes only; pieces don't add grams.
	nonServiceTotal := 0.0
	for _, d := range dishes {
		if d.Pool != PoolService && d.Unit != UnitQty {
			nonServiceTotal += userPortions[d.ID]
		}
	}
	maxFood := constraints.MaxTotalFoodPerPersonGrams
	if nonServiceTotal > maxFood {
		violations = append(violations, Violation{
			Type:     "max_total_food",
			Severity: "error",
			Message: fmt.Sprintf("Total food is %.0fg per person, exceeds cap of %.0fg",
				nonServiceTotal, maxFood),
			Total: round1(nonServiceTotal),
			Cap:   maxFood,
		})
	}

	return violations
}

// Check validates user-supplied per-person portions and compares them to
// what the allocator would have produced for the same menu.
func (c *Calculator) Check(req CheckRequest) (*CheckResult, error) {
	dishes, err := c.Catalogue.LoadDishes(req.DishIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load dishes")
	}
	if len(dishes) == 0 {
		return nil, errors.WithStack(ErrNoDishes)
	}

	settings, err := c.Settings.Resolve(uniqueCategoryIDs(dishes))
	if err != nil {
		return nil, errors.Wrap(err, "resolve settings")
	}
	constraints, err := c.Settings.Constraints(req.ConstraintOverrides)
	if err != nil {
		return nil, errors.Wrap(err, "resolve constraints")
	}

	violations := checkViolations(req.UserPortions, dishes, constraints, settings.PoolCeilings)

	bigEatersMult := 1.0
	if req.BigEaters {
		bigEatersMult = 1.0 + req.BigEatersPercentage/100.0
	}
	expanded, userTotals := expandPortions(dishes, req.UserPortions, req.Guests, expandOpts{
		bigEatersMult: bigEatersMult,
		ladiesMult:    settings.LadiesMultiplier,
		withCost:      false,
	})

	engineResult, err := c.Calculate(req.Request)
	if err != nil {
		return nil, errors.Wrap(err, "run allocator for comparison")
	}

	engineByDish := map[int]Portion{}
	for _, p := range engineResult.Portions {
		engineByDish[p.DishID] = p
	}
	userByDish := map[int]Portion{}
	for _, p := range expanded {
		userByDish[p.DishID] = p
	}

	comparison := make([]ComparisonRow, 0, len(dishes))
	for _, d := range dishes {
		userGrams := userByDish[d.ID].GramsPerPerson
		engineGrams := engineByDish[d.ID].GramsPerPerson
		deltaGrams := round1(userGrams - engineGrams)
		deltaPercent := 0.0
		if engineGrams != 0 {
			deltaPercent = round1(deltaGrams / engineGrams * 100)
		}
		comparison = append(comparison, ComparisonRow{
			DishID:       d.ID,
			DishName:     d.Name,
			Category:     d.CategoryName,
			Pool:         d.Pool,
			Unit:         d.Unit,
			UserGrams:    userGrams,
			EngineGrams:  engineGrams,
			DeltaGrams:   deltaGrams,
			DeltaPercent: deltaPercent,
		})
	}

	return &CheckResult{
		Violations:           violations,
		UserPortionsExpanded: expanded,
		EnginePortions:       engineResult.Portions,
		Comparison:           comparison,
		UserTotals: CheckTotals{
			FoodPerGentGrams:     userTotals.FoodPerGentGrams,
			FoodPerLadyGrams:     userTotals.FoodPerLadyGrams,
			FoodPerPersonGrams:   userTotals.FoodPerPersonGrams,
			TotalFoodWeightGrams: userTotals.TotalFoodWeightGrams,
		},
		EngineTotals: engineResult.Totals,
	}, nil
}
