package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture category ids mirror the seed data: curry/bbq/rice in the protein
// pool, veg curry/sides in accompaniment, dessert, and salad as service.
const (
	catCurry = iota + 1
	catBBQ
	catRice
	catVegCurry
	catSides
	catDessert
	catSalad
)

type stubCatalogue struct {
	dishes    []DishInput
	baselines map[Pool]map[int]float64
	names     map[int]string
	poolCats  map[Pool][]string
}

func (s *stubCatalogue) LoadDishes(ids []int) ([]DishInput, error) {
	want := map[int]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []DishInput
	for _, d := range s.dishes {
		if want[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubCatalogue) PoolBaselines(pool Pool) (map[int]float64, error) {
	return s.baselines[pool], nil
}

func (s *stubCatalogue) CategoryNames(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.names[id])
	}
	return out
}

func (s *stubCatalogue) PoolCategoryNames(pool Pool) []string {
	return s.poolCats[pool]
}

type stubSettings struct {
	settings    Settings
	constraints ResolvedConstraints
}

func (s *stubSettings) Resolve(_ []int) (Settings, error) {
	return s.settings, nil
}

func (s *stubSettings) Constraints(o ConstraintOverrides) (ResolvedConstraints, error) {
	c := s.constraints
	c.ApplyOverrides(o)
	return c, nil
}

func proteinDish(id int, name string, catID int, catName string, baseline, minPerDish float64) DishInput {
	return DishInput{
		ID:                  id,
		Name:                name,
		CategoryID:          catID,
		CategoryName:        catName,
		ProteinType:         "chicken",
		DefaultPortionGrams: baseline,
		Popularity:          1.0,
		CostPerGram:         0.5,
		Pool:                PoolProtein,
		Unit:                UnitKg,
		BaselineBudgetGrams: baseline,
		MinPerDishGrams:     minPerDish,
	}
}

func seedCatalogue() *stubCatalogue {
	fixedSalad := 50.0
	return &stubCatalogue{
		dishes: []DishInput{
			proteinDish(1, "Chicken Curry", catCurry, "Curry", 160, 70),
			proteinDish(2, "Mutton Curry", catCurry, "Curry", 160, 70),
			proteinDish(3, "Chicken Tikka", catBBQ, "Dry / Barbecue", 180, 100),
			proteinDish(4, "Seekh Kebab", catBBQ, "Dry / Barbecue", 180, 100),
			proteinDish(5, "Malai Boti", catBBQ, "Dry / Barbecue", 180, 100),
			proteinDish(6, "Chicken Biryani", catRice, "Rice", 100, 70),
			{
				ID: 7, Name: "Green Salad", CategoryID: catSalad, CategoryName: "Salad",
				ProteinType: "none", DefaultPortionGrams: 50, Popularity: 1.0, CostPerGram: 0.1,
				Pool: PoolService, Unit: UnitKg, FixedPortionGrams: &fixedSalad,
			},
		},
		baselines: map[Pool]map[int]float64{
			PoolProtein:       {catCurry: 160, catBBQ: 180, catRice: 100},
			PoolAccompaniment: {catVegCurry: 80, catSides: 60},
			PoolDessert:       {catDessert: 80},
		},
		names: map[int]string{
			catCurry: "Curry", catBBQ: "Dry / Barbecue", catRice: "Rice",
			catVegCurry: "Vegetable Curry", catSides: "Sides", catDessert: "Dessert",
			catSalad: "Salad",
		},
		poolCats: map[Pool][]string{
			PoolProtein:       {"Curry", "Dry / Barbecue", "Rice"},
			PoolAccompaniment: {"Vegetable Curry", "Sides"},
			PoolDessert:       {"Dessert"},
		},
	}
}

func seedSettings() *stubSettings {
	return &stubSettings{
		settings: Settings{
			PopularityStrength:     0.3,
			GrowthRate:             0.2,
			RedistributionFraction: 0.7,
			PoolCeilings: map[Pool]float64{
				PoolProtein:       590,
				PoolAccompaniment: 150,
				PoolDessert:       150,
			},
			LadiesMultiplier:   1.0,
			ProfileAdjustments: []string{},
		},
		constraints: NewResolvedConstraints(),
	}
}

func newTestCalculator() *Calculator {
	return New(seedCatalogue(), seedSettings())
}

func TestCalculateSingleCurryAbsorbsAbsentBudget(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)
	require.Len(t, res.Portions, 1)

	// 160 baseline + 70% of absent bbq+rice (280g) = 356g
	assert.InDelta(t, 356.0, res.Portions[0].GramsPerPerson, 0.1)
	assert.InDelta(t, 356.0, res.Portions[0].GramsPerGent, 0.1)
	assert.InDelta(t, 356.0, res.Portions[0].GramsPerLady, 0.1)

	found := false
	for _, adj := range res.AdjustmentsApplied {
		if adj == "No Dry / Barbecue, Rice on menu — 70% of their 280g budget (196g) was spread across the categories that are present" {
			found = true
		}
	}
	assert.True(t, found, "expected redistribution adjustment, got %v", res.AdjustmentsApplied)
}

func TestCalculateCurryPlusRiceSplitsAbsentProportionally(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 6},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)
	require.Len(t, res.Portions, 2)

	byName := map[string]Portion{}
	for _, p := range res.Portions {
		byName[p.DishName] = p
	}
	// curry 160 + 126*160/260, rice 100 + 126*100/260
	assert.InDelta(t, 237.5, byName["Chicken Curry"].GramsPerPerson, 0.1)
	assert.InDelta(t, 148.5, byName["Chicken Biryani"].GramsPerPerson, 0.1)
}

func TestCalculateFullProteinPoolNoRedistribution(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 3, 6},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)

	total := 0.0
	for _, p := range res.Portions {
		total += p.GramsPerPerson
	}
	// baselines only: 160 + 180 + 100
	assert.InDelta(t, 440.0, total, 0.5)

	for _, adj := range res.AdjustmentsApplied {
		assert.NotContains(t, adj, "spread across")
	}
}

func TestCalculateOverAllocatedMenuHitsPoolCeiling(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 2, 3, 4, 5, 6},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)

	total := 0.0
	for _, p := range res.Portions {
		total += p.GramsPerPerson
	}
	assert.InDelta(t, 590.0, total, 5.0)

	found := false
	for _, adj := range res.AdjustmentsApplied {
		if strings.Contains(adj, "Total exceeded 590g limit") {
			found = true
		}
	}
	assert.True(t, found, "expected ceiling adjustment, got %v", res.AdjustmentsApplied)
}

func TestCalculateMenuWarningsPrecedeCapWarnings(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1}, // curry only, no rice
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "Menu has no rice — at least one rice dish is recommended.", res.Warnings[0])
}

func TestCalculateServicePoolFixedPortions(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 7},
		Guests:  GuestMix{Gents: 10, Ladies: 0},
	})
	require.NoError(t, err)

	byName := map[string]Portion{}
	for _, p := range res.Portions {
		byName[p.DishName] = p
	}
	assert.InDelta(t, 50.0, byName["Green Salad"].GramsPerPerson, 0.01)
	assert.Equal(t, PoolService, byName["Green Salad"].Pool)
}

func TestCalculateBigEaters(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs:             []int{1},
		Guests:              GuestMix{Gents: 50, Ladies: 50},
		BigEaters:           true,
		BigEatersPercentage: 20,
	})
	require.NoError(t, err)
	require.Len(t, res.Portions, 1)
	assert.InDelta(t, 427.2, res.Portions[0].GramsPerGent, 0.1)
	assert.Contains(t, res.AdjustmentsApplied, "Big eaters: all portions increased by 20%")
}

func TestCalculateNoActiveDishes(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{999},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Portions)
	assert.Equal(t, []string{"No active dishes found for the given IDs."}, res.Warnings)
	assert.Zero(t, res.Totals.TotalFoodWeightGrams)
}

func TestCalculateGlobalCapScalesNonService(t *testing.T) {
	settings := seedSettings()
	maxFood := 300.0
	settings.constraints.MaxTotalFoodPerPersonGrams = maxFood
	calc := New(seedCatalogue(), settings)

	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 3, 6},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)

	total := 0.0
	for _, p := range res.Portions {
		total += p.GramsPerPerson
	}
	assert.LessOrEqual(t, total, maxFood+1.0)
	assert.Contains(t, res.AdjustmentsApplied, "Total food exceeded 300g limit — all portions scaled down")
	require.NotEmpty(t, res.Warnings)
}

func TestCalculateConstraintOverrides(t *testing.T) {
	calc := newTestCalculator()
	maxFood := 250.0
	res, err := calc.Calculate(Request{
		DishIDs: []int{1},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
		ConstraintOverrides: ConstraintOverrides{
			MaxTotalFoodPerPersonGrams: &maxFood,
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Portions, 1)
	assert.InDelta(t, 250.0, res.Portions[0].GramsPerPerson, 0.1)
}

func TestCalculateExpansionIdentity(t *testing.T) {
	calc := newTestCalculator()
	res, err := calc.Calculate(Request{
		DishIDs: []int{1, 3, 6, 7},
		Guests:  GuestMix{Gents: 70, Ladies: 30},
	})
	require.NoError(t, err)

	for _, p := range res.Portions {
		expected := p.GramsPerGent*70 + p.GramsPerLady*30
		assert.InDelta(t, expected, p.TotalGrams, 0.11, "dish %s", p.DishName)
	}
}

func TestCalculateDeterminism(t *testing.T) {
	calc := newTestCalculator()
	req := Request{
		DishIDs: []int{1, 2, 3, 4, 5, 6, 7},
		Guests:  GuestMix{Gents: 120, Ladies: 80},
	}

	first, err := calc.Calculate(req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := calc.Calculate(req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculateLadiesMultiplier(t *testing.T) {
	settings := seedSettings()
	settings.settings.LadiesMultiplier = 0.8
	calc := New(seedCatalogue(), settings)

	res, err := calc.Calculate(Request{
		DishIDs: []int{1},
		Guests:  GuestMix{Gents: 50, Ladies: 50},
	})
	require.NoError(t, err)
	require.Len(t, res.Portions, 1)
	assert.InDelta(t, res.Portions[0].GramsPerGent*0.8, res.Portions[0].GramsPerLady, 0.1)
}
