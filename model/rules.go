package model

import (
	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// GlobalConfig is the singleton row of portioning knobs. Loaded fresh per
// request so admin edits apply without a restart.
type GlobalConfig struct {
	Id                            int     `json:"id"`
	PopularityEnabled             bool    `json:"popularity_enabled" gorm:"default:true"`
	PopularityStrength            float64 `json:"popularity_strength" gorm:"default:0.3"`
	ProteinPoolCeilingGrams       float64 `json:"protein_pool_ceiling_grams" gorm:"default:440"`
	AccompanimentPoolCeilingGrams float64 `json:"accompaniment_pool_ceiling_grams" gorm:"default:150"`
	DessertPoolCeilingGrams       float64 `json:"dessert_pool_ceiling_grams" gorm:"default:150"`
	DishGrowthRate                float64 `json:"dish_growth_rate" gorm:"default:0.2"`
	AbsentRedistributionFraction  float64 `json:"absent_redistribution_fraction" gorm:"default:0.7"`
}

func LoadGlobalConfig() (*GlobalConfig, error) {
	config := GlobalConfig{Id: 1}
	err := DB.Where(GlobalConfig{Id: 1}).FirstOrCreate(&config).Error
	return &config, errors.Wrap(err, "load global config")
}

func (c *GlobalConfig) Update() error {
	c.Id = 1
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Save(c).Error
	}), "update global config")
}

// BudgetProfile overrides pool ceilings for a named tier of menus. At most
// one profile is the default fallback.
type BudgetProfile struct {
	Id                            int             `json:"id"`
	Name                          string          `json:"name" gorm:"size:100;index"`
	Description                   string          `json:"description"`
	Categories                    []*DishCategory `json:"categories,omitempty" gorm:"many2many:budget_profile_categories"`
	IsDefault                     bool            `json:"is_default" gorm:"default:false"`
	ProteinPoolCeilingGrams       *float64        `json:"protein_pool_ceiling_grams"`
	AccompanimentPoolCeilingGrams *float64        `json:"accompaniment_pool_ceiling_grams"`
	DessertPoolCeilingGrams       *float64        `json:"dessert_pool_ceiling_grams"`
}

func GetAllBudgetProfiles() ([]*BudgetProfile, error) {
	var profiles []*BudgetProfile
	err := DB.Preload("Categories").Order("name, id").Find(&profiles).Error
	return profiles, errors.Wrap(err, "get budget profiles")
}

// Save writes the profile and, when it is the default, clears the flag on
// every other profile in the same transaction.
func (p *BudgetProfile) Save() error {
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Transaction(func(tx *gorm.DB) error {
			if p.IsDefault {
				if err := tx.Model(&BudgetProfile{}).
					Where("is_default = ? AND id != ?", true, p.Id).
					Update("is_default", false).Error; err != nil {
					return errors.Wrap(err, "clear default flag")
				}
			}
			return tx.Save(p).Error
		})
	}), "save budget profile")
}

// GuestProfile maps a guest type to its portion multiplier (1.0 adult,
// smaller for children etc.).
type GuestProfile struct {
	Id                int     `json:"id"`
	Name              string  `json:"name" gorm:"size:50;uniqueIndex"`
	PortionMultiplier float64 `json:"portion_multiplier"`
}

func GetAllGuestProfiles() ([]*GuestProfile, error) {
	var profiles []*GuestProfile
	err := DB.Order("name").Find(&profiles).Error
	return profiles, errors.Wrap(err, "get guest profiles")
}

// CombinationRule is stored for forward compatibility; the allocator does
// not apply it yet.
type CombinationRule struct {
	Id              int             `json:"id"`
	Categories      []*DishCategory `json:"categories,omitempty" gorm:"many2many:combination_rule_categories"`
	ReductionFactor float64         `json:"reduction_factor"`
	Description     string          `json:"description" gorm:"size:200"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
}

func GetActiveCombinationRules() ([]*CombinationRule, error) {
	var rules []*CombinationRule
	err := DB.Preload("Categories").Where("is_active = ?", true).Order("id").Find(&rules).Error
	return rules, errors.Wrap(err, "get combination rules")
}

// GlobalConstraint is the singleton row of hard caps and floors.
type GlobalConstraint struct {
	Id                         int     `json:"id"`
	MaxTotalFoodPerPersonGrams float64 `json:"max_total_food_per_person_grams" gorm:"default:1000"`
	MinPortionPerDishGrams     float64 `json:"min_portion_per_dish_grams" gorm:"default:30"`
}

func LoadGlobalConstraint() (*GlobalConstraint, error) {
	constraint := GlobalConstraint{Id: 1}
	err := DB.Where(GlobalConstraint{Id: 1}).FirstOrCreate(&constraint).Error
	return &constraint, errors.Wrap(err, "load global constraint")
}

func (c *GlobalConstraint) Update() error {
	c.Id = 1
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Save(c).Error
	}), "update global constraint")
}

// CategoryConstraint carries optional per-category overrides; nil means
// "no override, fall back to the global value".
type CategoryConstraint struct {
	Id                    int      `json:"id"`
	CategoryId            int      `json:"category_id" gorm:"uniqueIndex"`
	MinPortionGrams       *float64 `json:"min_portion_grams"`
	MaxPortionGrams       *float64 `json:"max_portion_grams"`
	MaxTotalCategoryGrams *float64 `json:"max_total_category_grams"`
}

func GetAllCategoryConstraints() ([]*CategoryConstraint, error) {
	var constraints []*CategoryConstraint
	err := DB.Order("category_id").Find(&constraints).Error
	return constraints, errors.Wrap(err, "get category constraints")
}
