package model

import (
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/dastarkhwan/dastarkhwan/engine"
)

// DishCatalogue adapts the dish tables to the engine's Catalogue interface.
type DishCatalogue struct{}

func NewDishCatalogue() *DishCatalogue { return &DishCatalogue{} }

func (d *Dish) toEngineInput() engine.DishInput {
	in := engine.DishInput{
		ID:                  d.Id,
		Name:                d.Name,
		CategoryID:          d.CategoryId,
		ProteinType:         d.ProteinType,
		DefaultPortionGrams: d.DefaultPortionGrams,
		Popularity:          d.Popularity,
		CostPerGram:         d.CostPerGram,
		IsVegetarian:        d.IsVegetarian,
	}
	if d.Category != nil {
		in.CategoryName = d.Category.DisplayName
		in.ProteinIsAdditive = d.Category.ProteinIsAdditive
		in.Pool = engine.Pool(d.Category.Pool)
		in.Unit = engine.Unit(d.Category.Unit)
		in.BaselineBudgetGrams = d.Category.BaselineBudgetGrams
		in.MinPerDishGrams = d.Category.MinPerDishGrams
		in.FixedPortionGrams = d.Category.FixedPortionGrams
	}
	return in
}

func (c *DishCatalogue) LoadDishes(ids []int) ([]engine.DishInput, error) {
	dishes, err := GetActiveDishesByIds(ids)
	if err != nil {
		return nil, err
	}
	out := make([]engine.DishInput, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.toEngineInput())
	}
	return out, nil
}

func (c *DishCatalogue) PoolBaselines(pool engine.Pool) (map[int]float64, error) {
	categories, err := GetCategoriesByPool(string(pool))
	if err != nil {
		return nil, err
	}
	baselines := make(map[int]float64, len(categories))
	for _, cat := range categories {
		baselines[cat.Id] = cat.BaselineBudgetGrams
	}
	return baselines, nil
}

func (c *DishCatalogue) CategoryNames(ids []int) []string {
	categories, err := GetCategoriesByIds(ids)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.DisplayName)
	}
	return names
}

func (c *DishCatalogue) PoolCategoryNames(pool engine.Pool) []string {
	categories, err := GetCategoriesByPool(string(pool))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.DisplayName)
	}
	return names
}

// RuleSettings adapts the rules tables to the engine's SettingsSource.
// Every call reads fresh rows so config edits are effective immediately.
type RuleSettings struct {
	catalogue *DishCatalogue
}

func NewRuleSettings(catalogue *DishCatalogue) *RuleSettings {
	return &RuleSettings{catalogue: catalogue}
}

func (r *RuleSettings) Resolve(presentCategoryIDs []int) (engine.Settings, error) {
	config, err := LoadGlobalConfig()
	if err != nil {
		return engine.Settings{}, err
	}

	profiles, err := GetAllBudgetProfiles()
	if err != nil {
		return engine.Settings{}, err
	}
	profileSpecs := make([]engine.ProfileSpec, 0, len(profiles))
	for _, p := range profiles {
		spec := engine.ProfileSpec{
			Name:                          p.Name,
			IsDefault:                     p.IsDefault,
			ProteinPoolCeilingGrams:       p.ProteinPoolCeilingGrams,
			AccompanimentPoolCeilingGrams: p.AccompanimentPoolCeilingGrams,
			DessertPoolCeilingGrams:       p.DessertPoolCeilingGrams,
		}
		for _, cat := range p.Categories {
			spec.CategoryIDs = append(spec.CategoryIDs, cat.Id)
		}
		profileSpecs = append(profileSpecs, spec)
	}

	guestProfiles, err := GetAllGuestProfiles()
	if err != nil {
		return engine.Settings{}, err
	}
	multipliers := make(map[string]float64, len(guestProfiles))
	for _, gp := range guestProfiles {
		multipliers[strings.ToLower(gp.Name)] = gp.PortionMultiplier
	}

	rules, err := GetActiveCombinationRules()
	if err != nil {
		return engine.Settings{}, err
	}
	ruleSpecs := make([]engine.CombinationRuleSpec, 0, len(rules))
	for _, rule := range rules {
		spec := engine.CombinationRuleSpec{
			ReductionFactor: rule.ReductionFactor,
			Description:     rule.Description,
		}
		for _, cat := range rule.Categories {
			spec.CategoryIDs = append(spec.CategoryIDs, cat.Id)
		}
		ruleSpecs = append(ruleSpecs, spec)
	}

	global := engine.GlobalSettings{
		PopularityEnabled:             config.PopularityEnabled,
		PopularityStrength:            config.PopularityStrength,
		ProteinPoolCeilingGrams:       config.ProteinPoolCeilingGrams,
		AccompanimentPoolCeilingGrams: config.AccompanimentPoolCeilingGrams,
		DessertPoolCeilingGrams:       config.DessertPoolCeilingGrams,
		DishGrowthRate:                config.DishGrowthRate,
		AbsentRedistributionFraction:  config.AbsentRedistributionFraction,
	}

	return engine.ResolveSettings(global, profileSpecs, multipliers, ruleSpecs,
		presentCategoryIDs, r.catalogue), nil
}

func (r *RuleSettings) Constraints(overrides engine.ConstraintOverrides) (engine.ResolvedConstraints, error) {
	global, err := LoadGlobalConstraint()
	if err != nil {
		return engine.ResolvedConstraints{}, err
	}

	resolved := engine.NewResolvedConstraints()
	resolved.MaxTotalFoodPerPersonGrams = global.MaxTotalFoodPerPersonGrams
	resolved.MinPortionPerDishGrams = global.MinPortionPerDishGrams

	categoryConstraints, err := GetAllCategoryConstraints()
	if err != nil {
		return engine.ResolvedConstraints{}, err
	}
	for _, cc := range categoryConstraints {
		if cc.MinPortionGrams != nil {
			resolved.CategoryMinPortions[cc.CategoryId] = *cc.MinPortionGrams
		}
		if cc.MaxPortionGrams != nil {
			resolved.CategoryMaxPortions[cc.CategoryId] = *cc.MaxPortionGrams
		}
		if cc.MaxTotalCategoryGrams != nil {
			resolved.CategoryMaxTotals[cc.CategoryId] = *cc.MaxTotalCategoryGrams
		}
	}

	resolved.ApplyOverrides(overrides)
	return resolved, nil
}

// LadiesMultiplier reads the ladies guest profile, defaulting to 1.0.
func LadiesMultiplier() float64 {
	var profile GuestProfile
	if err := DB.Where("LOWER(name) = ?", "ladies").First(&profile).Error; err != nil {
		return 1.0
	}
	return profile.PortionMultiplier
}

// MenuDishInputs converts a template's portion snapshots to engine inputs
// plus the stored grams keyed by dish id.
func (m *MenuTemplate) MenuDishInputs() ([]engine.DishInput, map[int]float64, error) {
	dishes := make([]engine.DishInput, 0, len(m.Portions))
	stored := make(map[int]float64, len(m.Portions))
	for _, p := range m.Portions {
		if p.Dish == nil {
			return nil, nil, errors.Errorf("menu %d portion %d has no dish loaded", m.Id, p.Id)
		}
		dishes = append(dishes, p.Dish.toEngineInput())
		stored[p.DishId] = p.PortionGrams
	}
	return dishes, stored, nil
}
