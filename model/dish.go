package model

import (
	"sort"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/common/helper"
)

// DishCategory groups dishes inside an allocation pool and carries the
// budgeting reference values the engine reads per category.
type DishCategory struct {
	Id                  int      `json:"id"`
	Name                string   `json:"name" gorm:"size:50;uniqueIndex"`
	DisplayName         string   `json:"display_name" gorm:"size:100"`
	DisplayOrder        int      `json:"display_order" gorm:"default:0;index"`
	ProteinIsAdditive   bool     `json:"protein_is_additive" gorm:"default:false"`
	Pool                string   `json:"pool" gorm:"size:20;default:protein;index"`
	Unit                string   `json:"unit" gorm:"size:10;default:kg"`
	BaselineBudgetGrams float64  `json:"baseline_budget_grams" gorm:"default:0"`
	MinPerDishGrams     float64  `json:"min_per_dish_grams" gorm:"default:0"`
	FixedPortionGrams   *float64 `json:"fixed_portion_grams"`
	AdditionSurcharge   float64  `json:"addition_surcharge" gorm:"default:0"`
	RemovalDiscount     float64  `json:"removal_discount" gorm:"default:0"`
}

type Dish struct {
	Id                   int           `json:"id"`
	Name                 string        `json:"name" gorm:"size:200;index"`
	CategoryId           int           `json:"category_id" gorm:"index"`
	Category             *DishCategory `json:"category,omitempty" gorm:"foreignKey:CategoryId"`
	ProteinType          string        `json:"protein_type" gorm:"size:20;default:none"`
	DefaultPortionGrams  float64       `json:"default_portion_grams"`
	Popularity           float64       `json:"popularity" gorm:"default:1"`
	CostPerGram          float64       `json:"cost_per_gram" gorm:"default:0"`
	SellingPricePerGram  *float64      `json:"selling_price_per_gram"`
	SellingPriceOverride bool          `json:"selling_price_override" gorm:"default:false"`
	AdditionSurcharge    float64       `json:"addition_surcharge" gorm:"default:0"`
	RemovalDiscount      float64       `json:"removal_discount" gorm:"default:0"`
	SurchargeOverride    bool          `json:"surcharge_override" gorm:"default:false"`
	IsVegetarian         bool          `json:"is_vegetarian" gorm:"default:false"`
	IsActive             bool          `json:"is_active" gorm:"default:true;index"`
	Notes                string        `json:"notes"`
	CreatedTime          int64         `json:"created_time" gorm:"bigint"`
	UpdatedTime          int64         `json:"updated_time" gorm:"bigint"`
}

// BeforeSave derives the selling price from cost and the target food-cost
// percentage, and from that the per-head surcharge/discount pair, unless
// the operator pinned them manually.
func (d *Dish) BeforeSave(tx *gorm.DB) error {
	d.UpdatedTime = helper.GetTimestamp()
	if d.CreatedTime == 0 {
		d.CreatedTime = helper.GetTimestamp()
	}

	if !d.SellingPriceOverride && d.CostPerGram > 0 {
		var settings SiteSettings
		if err := tx.Where("id = ?", 1).First(&settings).Error; err == nil &&
			settings.TargetFoodCostPercentage > 0 {
			price := d.CostPerGram / (settings.TargetFoodCostPercentage / 100)
			d.SellingPricePerGram = &price
		}
	}

	if !d.SurchargeOverride && d.SellingPricePerGram != nil {
		var category DishCategory
		if err := tx.Where("id = ?", d.CategoryId).First(&category).Error; err == nil {
			surcharge := category.BaselineBudgetGrams * *d.SellingPricePerGram
			d.AdditionSurcharge = surcharge
			d.RemovalDiscount = surcharge / 2
		}
	}

	return nil
}

func GetAllCategories() ([]*DishCategory, error) {
	var categories []*DishCategory
	err := DB.Order("display_order, name").Find(&categories).Error
	return categories, errors.Wrap(err, "get all categories")
}

func GetCategoriesByPool(pool string) ([]*DishCategory, error) {
	var categories []*DishCategory
	err := DB.Where("pool = ?", pool).Order("display_order, name").Find(&categories).Error
	return categories, errors.Wrapf(err, "get categories for pool %s", pool)
}

func GetCategoriesByIds(ids []int) ([]*DishCategory, error) {
	var categories []*DishCategory
	err := DB.Where("id IN ?", ids).Order("display_order, name").Find(&categories).Error
	return categories, errors.Wrap(err, "get categories by ids")
}

// sortByCatalogueOrder keeps dish listings stable: category display order,
// then dish name.
func sortByCatalogueOrder(dishes []*Dish) {
	sort.SliceStable(dishes, func(i, j int) bool {
		di, dj := dishes[i], dishes[j]
		oi, oj := 0, 0
		if di.Category != nil {
			oi = di.Category.DisplayOrder
		}
		if dj.Category != nil {
			oj = dj.Category.DisplayOrder
		}
		if oi != oj {
			return oi < oj
		}
		return di.Name < dj.Name
	})
}

func GetActiveDishes() ([]*Dish, error) {
	var dishes []*Dish
	err := DB.Preload("Category").Where("is_active = ?", true).Find(&dishes).Error
	if err != nil {
		return nil, errors.Wrap(err, "get active dishes")
	}
	sortByCatalogueOrder(dishes)
	return dishes, nil
}

func GetActiveDishesByIds(ids []int) ([]*Dish, error) {
	var dishes []*Dish
	err := DB.Preload("Category").Where("id IN ? AND is_active = ?", ids, true).Find(&dishes).Error
	if err != nil {
		return nil, errors.Wrap(err, "get active dishes by ids")
	}
	sortByCatalogueOrder(dishes)
	return dishes, nil
}

// GetDishesByIds fetches dishes regardless of active state. Price checks
// need charge figures for removed dishes even after deactivation.
func GetDishesByIds(ids []int) ([]*Dish, error) {
	var dishes []*Dish
	err := DB.Preload("Category").Where("id IN ?", ids).Find(&dishes).Error
	if err != nil {
		return nil, errors.Wrap(err, "get dishes by ids")
	}
	sortByCatalogueOrder(dishes)
	return dishes, nil
}

func GetDishById(id int) (*Dish, error) {
	var dish Dish
	err := DB.Preload("Category").First(&dish, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get dish %d", id)
	}
	return &dish, nil
}

func (d *Dish) Insert() error {
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Create(d).Error
	}), "insert dish")
}

func (d *Dish) Update() error {
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Save(d).Error
	}), "update dish")
}
