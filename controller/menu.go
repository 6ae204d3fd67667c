package controller

import (
	"net/http"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/engine"
	"github.com/dastarkhwan/dastarkhwan/middleware"
	"github.com/dastarkhwan/dastarkhwan/model"
	"github.com/dastarkhwan/dastarkhwan/pricing"
)

func GetMenus(c *gin.Context) {
	menus, err := model.GetActiveMenuTemplates()
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    menus,
	})
}

func loadMenu(c *gin.Context) (*model.MenuTemplate, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return nil, false
	}
	menu, err := model.GetMenuTemplateById(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.AbortWithError(c, http.StatusNotFound, errors.New("menu template not found"))
		} else {
			middleware.AbortWithError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return menu, true
}

func GetMenu(c *gin.Context) {
	menu, ok := loadMenu(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    menu,
	})
}

// PreviewMenu expands the template's stored portions for a guest mix
// without rerunning the engine pipeline.
func PreviewMenu(c *gin.Context) {
	menu, ok := loadMenu(c)
	if !ok {
		return
	}

	gents := menu.DefaultGents
	ladies := menu.DefaultLadies
	if v := c.Query("gents"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.New("invalid gents count"))
			return
		}
		gents = n
	}
	if v := c.Query("ladies"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.New("invalid ladies count"))
			return
		}
		ladies = n
	}

	dishes, stored, err := menu.MenuDishInputs()
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}

	result := engine.BuildTemplateResult(menu.Name, dishes, stored,
		engine.GuestMix{Gents: gents, Ladies: ladies}, model.LadiesMultiplier())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    result,
	})
}

type PriceCheckRequest struct {
	GuestCount int   `json:"guest_count" binding:"required,min=1"`
	DishIds    []int `json:"dish_ids"`
}

// MenuPriceCheck prices a customised dish set against a template: tier
// price by guest count plus surcharges for added dishes minus discounts
// for removed ones.
func MenuPriceCheck(c *gin.Context) {
	menu, ok := loadMenu(c)
	if !ok {
		return
	}

	var req PriceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(err, "invalid request"))
		return
	}

	tiers := make([]pricing.Tier, 0, len(menu.PriceTiers))
	for _, tier := range menu.PriceTiers {
		tiers = append(tiers, pricing.Tier{
			MinGuests:    tier.MinGuests,
			PricePerHead: tier.PricePerHead,
		})
	}

	original := menu.DishIds()
	union := append(append([]int{}, original...), req.DishIds...)
	dishes, err := model.GetDishesByIds(union)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	charges := make(map[int]pricing.DishCharge, len(dishes))
	for _, d := range dishes {
		charge := pricing.DishCharge{
			DishID:            d.Id,
			DishName:          d.Name,
			AdditionSurcharge: d.AdditionSurcharge,
			RemovalDiscount:   d.RemovalDiscount,
		}
		if d.Category != nil {
			charge.CategoryAdditionSurcharge = d.Category.AdditionSurcharge
			charge.CategoryRemovalDiscount = d.Category.RemovalDiscount
		}
		charges[d.Id] = charge
	}

	settings, err := model.LoadSiteSettings()
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}

	adjustment, err := pricing.Adjust(tiers, req.GuestCount, original, req.DishIds,
		charges, settings.PriceRoundingStep)
	if err != nil {
		if errors.Is(err, pricing.ErrNoTier) {
			middleware.AbortWithError(c, http.StatusBadRequest, err)
			return
		}
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"menu_id":         menu.Id,
			"menu_name":       menu.Name,
			"guest_count":     req.GuestCount,
			"currency_symbol": settings.CurrencySymbol,
			"adjustment":      adjustment,
		},
	})
}
