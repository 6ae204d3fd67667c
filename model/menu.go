package model

import (
	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/common/config"
	"github.com/dastarkhwan/dastarkhwan/common/helper"
)

// MenuTemplate is a named, priced menu snapshot: per-dish portion figures
// frozen at design time plus guest-count price tiers.
type MenuTemplate struct {
	Id            int                     `json:"id"`
	Name          string                  `json:"name" gorm:"size:200;index"`
	Description   string                  `json:"description"`
	MenuType      string                  `json:"menu_type" gorm:"size:20;default:custom"`
	IsActive      bool                    `json:"is_active" gorm:"default:true;index"`
	DefaultGents  int                     `json:"default_gents" gorm:"default:50"`
	DefaultLadies int                     `json:"default_ladies" gorm:"default:50"`
	Portions      []MenuDishPortion       `json:"portions,omitempty" gorm:"foreignKey:MenuId"`
	PriceTiers    []MenuTemplatePriceTier `json:"price_tiers,omitempty" gorm:"foreignKey:MenuId"`
	CreatedTime   int64                   `json:"created_time" gorm:"bigint"`
}

func (m *MenuTemplate) BeforeCreate(_ *gorm.DB) error {
	if m.CreatedTime == 0 {
		m.CreatedTime = helper.GetTimestamp()
	}
	return nil
}

// MenuDishPortion is the stored per-person portion of one dish in a
// template. One row per (menu, dish).
type MenuDishPortion struct {
	Id           int     `json:"id"`
	MenuId       int     `json:"menu_id" gorm:"uniqueIndex:idx_menu_dish"`
	DishId       int     `json:"dish_id" gorm:"uniqueIndex:idx_menu_dish"`
	Dish         *Dish   `json:"dish,omitempty" gorm:"foreignKey:DishId"`
	PortionGrams float64 `json:"portion_grams"`
}

// MenuTemplatePriceTier is a fixed price per head from a guest-count
// threshold upwards. min_guests is unique per menu.
type MenuTemplatePriceTier struct {
	Id           int     `json:"id"`
	MenuId       int     `json:"menu_id" gorm:"uniqueIndex:idx_menu_tier"`
	MinGuests    int     `json:"min_guests" gorm:"uniqueIndex:idx_menu_tier"`
	PricePerHead float64 `json:"price_per_head"`
}

func GetActiveMenuTemplates() ([]*MenuTemplate, error) {
	var menus []*MenuTemplate
	err := DB.Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_guests")
	}).Where("is_active = ?", true).Order("name").
		Limit(config.MaxItemsPerPage).Find(&menus).Error
	return menus, errors.Wrap(err, "get active menu templates")
}

// GetMenuTemplateById returns an active template with portions (dish and
// category preloaded) and tiers, or gorm.ErrRecordNotFound.
func GetMenuTemplateById(id int) (*MenuTemplate, error) {
	var menu MenuTemplate
	err := DB.
		Preload("Portions.Dish.Category").
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_guests")
		}).
		Where("is_active = ?", true).
		First(&menu, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get menu template %d", id)
	}
	return &menu, nil
}

func (m *MenuTemplate) Insert() error {
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Create(m).Error
	}), "insert menu template")
}

// DishIds returns the template's dish id set in portion order.
func (m *MenuTemplate) DishIds() []int {
	ids := make([]int, 0, len(m.Portions))
	for _, p := range m.Portions {
		ids = append(ids, p.DishId)
	}
	return ids
}
