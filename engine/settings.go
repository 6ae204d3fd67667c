package engine

import (
	"fmt"
	"strings"
)

// GlobalSettings is the singleton portioning configuration snapshot.
type GlobalSettings struct {
	PopularityEnabled             bool
	PopularityStrength            float64
	ProteinPoolCeilingGrams       float64
	AccompanimentPoolCeilingGrams float64
	DessertPoolCeilingGrams       float64
	DishGrowthRate                float64
	AbsentRedistributionFraction  float64
}

// ProfileSpec is a budget profile snapshot: a named category set with
// optional per-pool ceiling overrides. A nil override means "use global".
type ProfileSpec struct {
	Name                          string
	IsDefault                     bool
	CategoryIDs                   []int
	ProteinPoolCeilingGrams       *float64
	AccompanimentPoolCeilingGrams *float64
	DessertPoolCeilingGrams       *float64
}

func (p *ProfileSpec) ceilingFor(pool Pool) *float64 {
	switch pool {
	case PoolProtein:
		return p.ProteinPoolCeilingGrams
	case PoolAccompaniment:
		return p.AccompanimentPoolCeilingGrams
	case PoolDessert:
		return p.DessertPoolCeilingGrams
	}
	return nil
}

// CombinationRuleSpec is stored but not applied by the allocator. The shape
// is preserved at the boundary for forward compatibility.
type CombinationRuleSpec struct {
	CategoryIDs     []int
	ReductionFactor float64
	Description     string
}

// Settings is the effective per-request configuration after profile
// selection. ProfileAdjustments seed the result's adjustment list.
type Settings struct {
	PopularityStrength     float64
	GrowthRate             float64
	RedistributionFraction float64
	PoolCeilings           map[Pool]float64
	LadiesMultiplier       float64
	CombinationRules       []CombinationRuleSpec
	ProfileAdjustments     []string
}

// SettingsSource resolves the effective settings and constraints for one
// request. Implementations load from storage; the engine treats the results
// as immutable for the duration of the calculation.
type SettingsSource interface {
	Resolve(presentCategoryIDs []int) (Settings, error)
	Constraints(overrides ConstraintOverrides) (ResolvedConstraints, error)
}

// ConstraintOverrides are the caller-adjustable global constraint fields.
type ConstraintOverrides struct {
	MaxTotalFoodPerPersonGrams *float64 `json:"max_total_food_per_person_grams" binding:"omitempty,min=0"`
	MinPortionPerDishGrams     *float64 `json:"min_portion_per_dish_grams" binding:"omitempty,min=0"`
}

// ResolvedConstraints are the merged global + per-category caps and floors.
type ResolvedConstraints struct {
	MaxTotalFoodPerPersonGrams float64
	MinPortionPerDishGrams     float64
	CategoryMinPortions        map[int]float64
	CategoryMaxPortions        map[int]float64
	CategoryMaxTotals          map[int]float64
}

// NewResolvedConstraints returns constraints at their built-in defaults.
func NewResolvedConstraints() ResolvedConstraints {
	return ResolvedConstraints{
		MaxTotalFoodPerPersonGrams: 1000,
		MinPortionPerDishGrams:     30,
		CategoryMinPortions:        map[int]float64{},
		CategoryMaxPortions:        map[int]float64{},
		CategoryMaxTotals:          map[int]float64{},
	}
}

// ApplyOverrides overlays caller-supplied global fields.
func (c *ResolvedConstraints) ApplyOverrides(o ConstraintOverrides) {
	if o.MaxTotalFoodPerPersonGrams != nil {
		c.MaxTotalFoodPerPersonGrams = *o.MaxTotalFoodPerPersonGrams
	}
	if o.MinPortionPerDishGrams != nil {
		c.MinPortionPerDishGrams = *o.MinPortionPerDishGrams
	}
}

// SelectProfile picks the profile whose category set best matches the
// present set by Jaccard similarity. An exact set match wins immediately;
// otherwise the highest score wins with ties broken by profile order. When
// the best score is below 0.5 the default profile (if any) takes over.
func SelectProfile(profiles []ProfileSpec, presentCategoryIDs []int) *ProfileSpec {
	present := make(map[int]bool, len(presentCategoryIDs))
	for _, id := range presentCategoryIDs {
		present[id] = true
	}

	var best *ProfileSpec
	bestScore := -1.0

	for i := range profiles {
		p := &profiles[i]
		profCats := make(map[int]bool, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			profCats[id] = true
		}

		if len(profCats) == len(present) {
			exact := true
			for id := range present {
				if !profCats[id] {
					exact = false
					break
				}
			}
			if exact {
				return p
			}
		}

		intersection := 0
		for id := range present {
			if profCats[id] {
				intersection++
			}
		}
		union := len(present) + len(profCats) - intersection
		score := 0.0
		if union > 0 {
			score = float64(intersection) / float64(union)
		}
		if score > bestScore {
			bestScore = score
			best = p
		}
	}

	if bestScore < 0.5 {
		for i := range profiles {
			if profiles[i].IsDefault {
				return &profiles[i]
			}
		}
	}

	return best
}

// ResolveSettings computes the effective settings for a menu: selects the
// budget profile, applies its ceiling overrides, and emits one adjustment
// per pool whose ceiling the profile changed.
func ResolveSettings(global GlobalSettings, profiles []ProfileSpec,
	guestMultipliers map[string]float64, rules []CombinationRuleSpec,
	presentCategoryIDs []int, cat Catalogue) Settings {

	ceilings := map[Pool]float64{
		PoolProtein:       global.ProteinPoolCeilingGrams,
		PoolAccompaniment: global.AccompanimentPoolCeilingGrams,
		PoolDessert:       global.DessertPoolCeilingGrams,
	}
	adjustments := []string{}

	if profile := SelectProfile(profiles, presentCategoryIDs); profile != nil {
		for _, pool := range BudgetedPools {
			override := profile.ceilingFor(pool)
			if override == nil {
				continue
			}
			defaultCeiling := ceilings[pool]
			ceilings[pool] = *override
			if *override == defaultCeiling {
				continue
			}
			label := strings.Join(cat.PoolCategoryNames(pool), " + ")
			if *override > defaultCeiling {
				adjustments = append(adjustments, fmt.Sprintf(
					"Large menu — combined %s limit raised from %.0fg to %.0fg per person",
					label, defaultCeiling, *override))
			} else {
				adjustments = append(adjustments, fmt.Sprintf(
					"Combined %s limit lowered from %.0fg to %.0fg per person",
					label, defaultCeiling, *override))
			}
		}
	}

	strength := 0.0
	if global.PopularityEnabled {
		strength = global.PopularityStrength
	}
	ladies := 1.0
	if m, ok := guestMultipliers["ladies"]; ok {
		ladies = m
	}

	return Settings{
		PopularityStrength:     strength,
		GrowthRate:             global.DishGrowthRate,
		RedistributionFraction: global.AbsentRedistributionFraction,
		PoolCeilings:           ceilings,
		LadiesMultiplier:       ladies,
		CombinationRules:       rules,
		ProfileAdjustments:     adjustments,
	}
}
