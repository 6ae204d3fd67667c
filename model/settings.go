package model

import (
	"github.com/Laisky/errors/v2"
)

// SiteSettings is the singleton row of site-wide commercial settings.
type SiteSettings struct {
	Id                       int     `json:"id"`
	CurrencySymbol           string  `json:"currency_symbol" gorm:"size:10;default:Rs."`
	CurrencyCode             string  `json:"currency_code" gorm:"size:10;default:PKR"`
	DefaultPricePerHead      float64 `json:"default_price_per_head" gorm:"default:0"`
	TargetFoodCostPercentage float64 `json:"target_food_cost_percentage" gorm:"default:40"`
	// PriceRoundingStep rounds adjusted menu prices to its nearest
	// multiple; 1 keeps whole currency units.
	PriceRoundingStep float64 `json:"price_rounding_step" gorm:"default:1"`
}

func LoadSiteSettings() (*SiteSettings, error) {
	settings := SiteSettings{Id: 1}
	err := DB.Where(SiteSettings{Id: 1}).FirstOrCreate(&settings).Error
	return &settings, errors.Wrap(err, "load site settings")
}

func (s *SiteSettings) Update() error {
	s.Id = 1
	return errors.Wrap(withSQLiteWriteRetry(nil, func() error {
		return DB.Save(s).Error
	}), "update site settings")
}
