package model

import (
	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/common/logger"
)

// SeedIfEmpty loads the fixture catalogue when the category table is empty.
// Safe to call on every boot.
func SeedIfEmpty() error {
	var count int64
	if err := DB.Model(&DishCategory{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count dish categories")
	}
	if count > 0 {
		return nil
	}
	return Seed()
}

// Seed populates categories, dishes, rules, and menu templates with the
// calibrated production fixtures. Baselines come from single-dish menus;
// the 590g protein ceiling from the heaviest real banquet (330 bbq +
// 190 curry + 70 rice).
func Seed() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		fp := func(v float64) *float64 { return &v }

		categories := []*DishCategory{
			{Name: "curry", DisplayName: "Curry", DisplayOrder: 0, Pool: "protein", Unit: "kg", BaselineBudgetGrams: 160, MinPerDishGrams: 70},
			{Name: "dry_barbecue", DisplayName: "Dry / Barbecue", DisplayOrder: 1, Pool: "protein", Unit: "kg", BaselineBudgetGrams: 180, MinPerDishGrams: 100},
			{Name: "rice", DisplayName: "Rice", DisplayOrder: 2, ProteinIsAdditive: true, Pool: "protein", Unit: "kg", BaselineBudgetGrams: 100, MinPerDishGrams: 70},
			{Name: "veg_curry", DisplayName: "Veg Curry", DisplayOrder: 3, Pool: "accompaniment", Unit: "kg", BaselineBudgetGrams: 80, MinPerDishGrams: 30},
			{Name: "sides", DisplayName: "Sides", DisplayOrder: 4, Pool: "accompaniment", Unit: "kg", BaselineBudgetGrams: 60, MinPerDishGrams: 30},
			{Name: "dessert", DisplayName: "Dessert", DisplayOrder: 5, Pool: "dessert", Unit: "kg", BaselineBudgetGrams: 80, MinPerDishGrams: 40},
			{Name: "salad", DisplayName: "Salad", DisplayOrder: 6, Pool: "service", Unit: "kg", FixedPortionGrams: fp(50), AdditionSurcharge: 30, RemovalDiscount: 15},
			{Name: "condiment", DisplayName: "Condiment", DisplayOrder: 7, Pool: "service", Unit: "kg", FixedPortionGrams: fp(40), AdditionSurcharge: 20, RemovalDiscount: 10},
			{Name: "bread", DisplayName: "Bread", DisplayOrder: 8, Pool: "service", Unit: "qty", FixedPortionGrams: fp(1), AdditionSurcharge: 25, RemovalDiscount: 10},
			{Name: "tea", DisplayName: "Tea", DisplayOrder: 9, Pool: "service", Unit: "qty", FixedPortionGrams: fp(1), AdditionSurcharge: 15, RemovalDiscount: 5},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return errors.Wrap(err, "seed categories")
		}
		byName := map[string]*DishCategory{}
		for _, c := range categories {
			byName[c.Name] = c
		}

		// Site settings go in before dishes: the dish save hook derives
		// selling prices from the target food-cost percentage.
		if err := tx.Create(&SiteSettings{Id: 1, CurrencySymbol: "Rs.", CurrencyCode: "PKR",
			TargetFoodCostPercentage: 40, PriceRoundingStep: 1}).Error; err != nil {
			return errors.Wrap(err, "seed site settings")
		}

		type dishRow struct {
			name    string
			cat     string
			protein string
			portion float64
			cost    float64
			veg     bool
		}
		dishRows := []dishRow{
			{"Mutton Qorma", "curry", "mutton", 120, 0.55, false},
			{"Mutton Karahi", "curry", "mutton", 120, 0.55, false},
			{"Chicken Qorma", "curry", "chicken", 120, 0.38, false},
			{"Chicken Curry", "curry", "chicken", 120, 0.35, false},
			{"Lahori Chicken Karahi", "curry", "chicken", 120, 0.40, false},
			{"Beef Haleem", "curry", "beef", 130, 0.40, false},
			{"Kofta Curry", "curry", "beef", 120, 0.42, false},
			{"Chicken Biryani", "rice", "chicken", 180, 0.28, false},
			{"Matka Biryani", "rice", "chicken", 180, 0.32, false},
			{"Mutton Pulao", "rice", "mutton", 170, 0.45, false},
			{"Vegetable Biryani", "rice", "none", 170, 0.15, true},
			{"Peas Pulao", "rice", "none", 160, 0.10, true},
			{"Whole Mutton Roast", "dry_barbecue", "mutton", 100, 0.70, false},
			{"Chicken Boti Tikka", "dry_barbecue", "chicken", 100, 0.45, false},
			{"Seekh Kabab", "dry_barbecue", "beef", 100, 0.48, false},
			{"Chicken Seekh Kabab", "dry_barbecue", "chicken", 100, 0.46, false},
			{"Mutton Seekh Kabab", "dry_barbecue", "mutton", 100, 0.60, false},
			{"Chicken Tandoori Boti", "dry_barbecue", "chicken", 100, 0.48, false},
			{"Lahori Fried Fish", "dry_barbecue", "fish", 90, 0.50, false},
			{"Palak Paneer", "veg_curry", "none", 110, 0.30, true},
			{"Mix Daal", "veg_curry", "none", 110, 0.12, true},
			{"Aaloo Achari", "veg_curry", "none", 100, 0.12, true},
			{"Lahori Chanay", "veg_curry", "none", 110, 0.12, true},
			{"Bhagaray Baingan", "sides", "none", 60, 0.15, true},
			{"Bhindi Fry", "sides", "none", 60, 0.15, true},
			{"Khattay Aaloo", "sides", "none", 60, 0.10, true},
			{"Zarda", "dessert", "none", 80, 0.18, true},
			{"Fruit Trifle", "dessert", "none", 80, 0.25, true},
			{"Kheer", "dessert", "none", 80, 0.20, true},
			{"Chocolate Mousse", "dessert", "none", 70, 0.35, true},
			{"Gulab Jaman", "dessert", "none", 60, 0.22, true},
			{"Fresh Green Salad", "salad", "none", 50, 0.08, true},
			{"Macaroni Salad", "salad", "none", 50, 0.12, true},
			{"Raita", "condiment", "none", 40, 0.08, true},
			{"Assorted Naan", "bread", "none", 1, 0, true},
			{"Puri", "bread", "none", 1, 0, true},
			{"Green Tea", "tea", "none", 1, 0, true},
		}
		dishByName := map[string]*Dish{}
		for _, row := range dishRows {
			dish := &Dish{
				Name:                row.name,
				CategoryId:          byName[row.cat].Id,
				ProteinType:         row.protein,
				DefaultPortionGrams: row.portion,
				Popularity:          1.0,
				CostPerGram:         row.cost,
				IsVegetarian:        row.veg,
				IsActive:            true,
			}
			if err := tx.Create(dish).Error; err != nil {
				return errors.Wrapf(err, "seed dish %s", row.name)
			}
			dishByName[row.name] = dish
		}

		config := &GlobalConfig{
			Id:                            1,
			PopularityEnabled:             true,
			PopularityStrength:            0.3,
			ProteinPoolCeilingGrams:       590,
			AccompanimentPoolCeilingGrams: 150,
			DessertPoolCeilingGrams:       150,
			DishGrowthRate:                0.20,
			AbsentRedistributionFraction:  0.70,
		}
		if err := tx.Create(config).Error; err != nil {
			return errors.Wrap(err, "seed global config")
		}

		profiles := []*BudgetProfile{
			{
				Name:        "Grand",
				Description: "Grand tier with expanded ceiling (700g)",
				Categories: []*DishCategory{
					byName["curry"], byName["dry_barbecue"], byName["rice"], byName["dessert"],
				},
				ProteinPoolCeilingGrams: fp(700),
			},
			{
				Name:        "Standard",
				Description: "Standard protein ceiling (590g)",
				IsDefault:   true,
				Categories: []*DishCategory{
					byName["curry"], byName["dry_barbecue"], byName["rice"],
				},
			},
		}
		if err := tx.Create(&profiles).Error; err != nil {
			return errors.Wrap(err, "seed budget profiles")
		}

		guestProfiles := []*GuestProfile{
			{Name: "gents", PortionMultiplier: 1.0},
			{Name: "ladies", PortionMultiplier: 1.0},
		}
		if err := tx.Create(&guestProfiles).Error; err != nil {
			return errors.Wrap(err, "seed guest profiles")
		}

		constraint := &GlobalConstraint{
			Id:                         1,
			MaxTotalFoodPerPersonGrams: 1000,
			MinPortionPerDishGrams:     30,
		}
		if err := tx.Create(constraint).Error; err != nil {
			return errors.Wrap(err, "seed global constraint")
		}

		saladConstraint := &CategoryConstraint{
			CategoryId:            byName["salad"].Id,
			MinPortionGrams:       fp(30),
			MaxTotalCategoryGrams: fp(100),
		}
		if err := tx.Create(saladConstraint).Error; err != nil {
			return errors.Wrap(err, "seed salad constraint")
		}

		type portionRow struct {
			dish  string
			grams float64
		}
		type tierRow struct {
			minGuests int
			price     float64
		}
		type menuRow struct {
			name        string
			description string
			menuType    string
			portions    []portionRow
			tiers       []tierRow
		}
		menus := []menuRow{
			{
				name:        "Golden Elegance Feast",
				description: "BBQ, curry, and rice — standard tier",
				menuType:    "barat",
				portions: []portionRow{
					{"Chicken Seekh Kabab", 180}, {"Chicken Qorma", 160}, {"Chicken Biryani", 100},
					{"Fresh Green Salad", 40}, {"Macaroni Salad", 60}, {"Raita", 40},
					{"Assorted Naan", 1}, {"Fruit Trifle", 80}, {"Green Tea", 1},
				},
				tiers: []tierRow{{50, 2750}, {100, 2450}, {200, 2350}},
			},
			{
				name:        "Royal Heritage Spread",
				description: "Curry and rice — simple baseline",
				menuType:    "barat",
				portions: []portionRow{
					{"Mutton Qorma", 240}, {"Chicken Biryani", 100},
					{"Fresh Green Salad", 40}, {"Macaroni Salad", 60}, {"Raita", 40},
					{"Assorted Naan", 1.25}, {"Fruit Trifle", 80}, {"Green Tea", 1},
				},
				tiers: []tierRow{{50, 3250}, {100, 3000}, {200, 2500}},
			},
			{
				name:        "Heritage Elegance Banquet",
				description: "3 BBQ items, curry, and rice — over-allocated on purpose",
				menuType:    "barat",
				portions: []portionRow{
					{"Whole Mutton Roast", 110}, {"Chicken Boti Tikka", 110}, {"Seekh Kabab", 110},
					{"Mutton Qorma", 95}, {"Chicken Qorma", 95}, {"Chicken Biryani", 70},
					{"Zarda", 140}, {"Fresh Green Salad", 50}, {"Raita", 40},
					{"Assorted Naan", 1}, {"Green Tea", 1},
				},
				tiers: []tierRow{{50, 5000}, {100, 4750}, {200, 4250}},
			},
		}

		for _, row := range menus {
			menu := &MenuTemplate{
				Name:          row.name,
				Description:   row.description,
				MenuType:      row.menuType,
				IsActive:      true,
				DefaultGents:  50,
				DefaultLadies: 50,
			}
			for _, p := range row.portions {
				dish, ok := dishByName[p.dish]
				if !ok {
					return errors.Errorf("seed menu %s references unknown dish %s", row.name, p.dish)
				}
				menu.Portions = append(menu.Portions, MenuDishPortion{DishId: dish.Id, PortionGrams: p.grams})
			}
			for _, tier := range row.tiers {
				menu.PriceTiers = append(menu.PriceTiers, MenuTemplatePriceTier{MinGuests: tier.minGuests, PricePerHead: tier.price})
			}
			if err := tx.Create(menu).Error; err != nil {
				return errors.Wrapf(err, "seed menu %s", row.name)
			}
		}

		logger.Logger.Info("seeded fixture catalogue",
			zap.Int("categories", len(categories)),
			zap.Int("dishes", len(dishRows)),
			zap.Int("menus", len(menus)))
		return nil
	})
}
