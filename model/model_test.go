package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/engine"
)

// setupTestDatabase replaces the global DB with a fresh in-memory SQLite
// instance and runs the schema migration.
func setupTestDatabase(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	DB = db
	require.NoError(t, migrateDB())
}

func setupSeededDatabase(t *testing.T) {
	t.Helper()
	setupTestDatabase(t)
	require.NoError(t, Seed())
}

func categoryIdByName(t *testing.T, name string) int {
	t.Helper()
	var cat DishCategory
	require.NoError(t, DB.Where("name = ?", name).First(&cat).Error)
	return cat.Id
}

func dishIdByName(t *testing.T, name string) int {
	t.Helper()
	var dish Dish
	require.NoError(t, DB.Where("name = ?", name).First(&dish).Error)
	return dish.Id
}

func TestSeedIsIdempotent(t *testing.T) {
	setupSeededDatabase(t)

	var before int64
	require.NoError(t, DB.Model(&Dish{}).Count(&before).Error)
	require.NoError(t, SeedIfEmpty())

	var after int64
	require.NoError(t, DB.Model(&Dish{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestCatalogueLoadDishesSkipsInactive(t *testing.T) {
	setupSeededDatabase(t)

	id := dishIdByName(t, "Chicken Qorma")
	require.NoError(t, DB.Model(&Dish{}).Where("id = ?", id).Update("is_active", false).Error)

	catalogue := NewDishCatalogue()
	dishes, err := catalogue.LoadDishes([]int{id, dishIdByName(t, "Chicken Biryani"), 99999})
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Chicken Biryani", dishes[0].Name)
	assert.Equal(t, engine.PoolProtein, dishes[0].Pool)
	assert.InDelta(t, 100.0, dishes[0].BaselineBudgetGrams, 0.01)
	assert.InDelta(t, 70.0, dishes[0].MinPerDishGrams, 0.01)
	assert.True(t, dishes[0].ProteinIsAdditive)
}

func TestCatalogueOrderingFollowsCategoryDisplayOrder(t *testing.T) {
	setupSeededDatabase(t)

	curry := dishIdByName(t, "Chicken Qorma")
	bbq := dishIdByName(t, "Seekh Kabab")
	rice := dishIdByName(t, "Chicken Biryani")

	catalogue := NewDishCatalogue()
	dishes, err := catalogue.LoadDishes([]int{rice, bbq, curry})
	require.NoError(t, err)
	require.Len(t, dishes, 3)
	assert.Equal(t, "Chicken Qorma", dishes[0].Name)
	assert.Equal(t, "Seekh Kabab", dishes[1].Name)
	assert.Equal(t, "Chicken Biryani", dishes[2].Name)
}

func TestCataloguePoolBaselines(t *testing.T) {
	setupSeededDatabase(t)

	catalogue := NewDishCatalogue()
	baselines, err := catalogue.PoolBaselines(engine.PoolProtein)
	require.NoError(t, err)
	require.Len(t, baselines, 3)
	assert.InDelta(t, 160.0, baselines[categoryIdByName(t, "curry")], 0.01)
	assert.InDelta(t, 180.0, baselines[categoryIdByName(t, "dry_barbecue")], 0.01)
	assert.InDelta(t, 100.0, baselines[categoryIdByName(t, "rice")], 0.01)
}

func TestCataloguePoolCategoryNames(t *testing.T) {
	setupSeededDatabase(t)

	catalogue := NewDishCatalogue()
	names := catalogue.PoolCategoryNames(engine.PoolProtein)
	assert.Equal(t, []string{"Curry", "Dry / Barbecue", "Rice"}, names)
}

func TestRuleSettingsResolveStandardProfile(t *testing.T) {
	setupSeededDatabase(t)

	settings := NewRuleSettings(NewDishCatalogue())
	resolved, err := settings.Resolve([]int{
		categoryIdByName(t, "curry"),
		categoryIdByName(t, "dry_barbecue"),
		categoryIdByName(t, "rice"),
	})
	require.NoError(t, err)

	assert.InDelta(t, 590.0, resolved.PoolCeilings[engine.PoolProtein], 0.01)
	assert.InDelta(t, 0.3, resolved.PopularityStrength, 0.001)
	assert.InDelta(t, 0.2, resolved.GrowthRate, 0.001)
	assert.InDelta(t, 0.7, resolved.RedistributionFraction, 0.001)
	assert.InDelta(t, 1.0, resolved.LadiesMultiplier, 0.001)
	assert.Empty(t, resolved.ProfileAdjustments)
}

func TestRuleSettingsResolveGrandProfileRaisesCeiling(t *testing.T) {
	setupSeededDatabase(t)

	settings := NewRuleSettings(NewDishCatalogue())
	resolved, err := settings.Resolve([]int{
		categoryIdByName(t, "curry"),
		categoryIdByName(t, "dry_barbecue"),
		categoryIdByName(t, "rice"),
		categoryIdByName(t, "dessert"),
	})
	require.NoError(t, err)

	assert.InDelta(t, 700.0, resolved.PoolCeilings[engine.PoolProtein], 0.01)
	require.Len(t, resolved.ProfileAdjustments, 1)
	assert.Contains(t, resolved.ProfileAdjustments[0], "raised from 590g to 700g")
}

func TestRuleSettingsConstraints(t *testing.T) {
	setupSeededDatabase(t)

	settings := NewRuleSettings(NewDishCatalogue())
	constraints, err := settings.Constraints(engine.ConstraintOverrides{})
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, constraints.MaxTotalFoodPerPersonGrams, 0.01)
	assert.InDelta(t, 30.0, constraints.MinPortionPerDishGrams, 0.01)

	saladId := categoryIdByName(t, "salad")
	assert.InDelta(t, 30.0, constraints.CategoryMinPortions[saladId], 0.01)
	assert.InDelta(t, 100.0, constraints.CategoryMaxTotals[saladId], 0.01)

	maxFood := 800.0
	constraints, err = settings.Constraints(engine.ConstraintOverrides{
		MaxTotalFoodPerPersonGrams: &maxFood,
	})
	require.NoError(t, err)
	assert.InDelta(t, 800.0, constraints.MaxTotalFoodPerPersonGrams, 0.01)
}

func TestBudgetProfileSaveClearsOtherDefaults(t *testing.T) {
	setupSeededDatabase(t)

	profiles, err := GetAllBudgetProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	var grand *BudgetProfile
	for _, p := range profiles {
		if p.Name == "Grand" {
			grand = p
		}
	}
	require.NotNil(t, grand)
	grand.IsDefault = true
	require.NoError(t, grand.Save())

	profiles, err = GetAllBudgetProfiles()
	require.NoError(t, err)
	defaults := 0
	for _, p := range profiles {
		if p.IsDefault {
			defaults++
			assert.Equal(t, "Grand", p.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSingletonLoadCreatesRow(t *testing.T) {
	setupTestDatabase(t)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, config.Id)

	constraint, err := LoadGlobalConstraint()
	require.NoError(t, err)
	assert.Equal(t, 1, constraint.Id)

	settings, err := LoadSiteSettings()
	require.NoError(t, err)
	assert.Equal(t, 1, settings.Id)
}

func TestGetMenuTemplateById(t *testing.T) {
	setupSeededDatabase(t)

	var menu MenuTemplate
	require.NoError(t, DB.Where("name = ?", "Golden Elegance Feast").First(&menu).Error)

	loaded, err := GetMenuTemplateById(menu.Id)
	require.NoError(t, err)
	assert.Len(t, loaded.Portions, 9)
	assert.Len(t, loaded.DishIds(), 9)
	require.Len(t, loaded.PriceTiers, 3)
	assert.Equal(t, 50, loaded.PriceTiers[0].MinGuests)
	assert.InDelta(t, 2750.0, loaded.PriceTiers[0].PricePerHead, 0.01)

	for _, p := range loaded.Portions {
		require.NotNil(t, p.Dish)
		require.NotNil(t, p.Dish.Category)
	}
}

func TestGetMenuTemplateByIdInactive(t *testing.T) {
	setupSeededDatabase(t)

	var menu MenuTemplate
	require.NoError(t, DB.Where("name = ?", "Golden Elegance Feast").First(&menu).Error)
	require.NoError(t, DB.Model(&MenuTemplate{}).Where("id = ?", menu.Id).Update("is_active", false).Error)

	_, err := GetMenuTemplateById(menu.Id)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDishBeforeSaveDerivesPricing(t *testing.T) {
	setupSeededDatabase(t)

	dish := &Dish{
		Name:                "Test Karahi",
		CategoryId:          categoryIdByName(t, "curry"),
		ProteinType:         "chicken",
		DefaultPortionGrams: 120,
		Popularity:          1.0,
		CostPerGram:         0.004,
		IsActive:            true,
	}
	require.NoError(t, dish.Insert())

	// target food cost 40% -> selling price 0.01/g; curry baseline 160g
	require.NotNil(t, dish.SellingPricePerGram)
	assert.InDelta(t, 0.01, *dish.SellingPricePerGram, 0.0001)
	assert.InDelta(t, 1.6, dish.AdditionSurcharge, 0.01)
	assert.InDelta(t, 0.8, dish.RemovalDiscount, 0.01)
}

func TestLadiesMultiplierFallback(t *testing.T) {
	setupTestDatabase(t)
	assert.InDelta(t, 1.0, LadiesMultiplier(), 0.001)

	require.NoError(t, DB.Create(&GuestProfile{Name: "ladies", PortionMultiplier: 0.9}).Error)
	assert.InDelta(t, 0.9, LadiesMultiplier(), 0.001)
}
