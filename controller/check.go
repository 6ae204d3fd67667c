package controller

import (
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/common"
	"github.com/dastarkhwan/dastarkhwan/engine"
	"github.com/dastarkhwan/dastarkhwan/middleware"
	"github.com/dastarkhwan/dastarkhwan/monitor"
)

// UserPortion is one planner-entered per-person figure.
type UserPortion struct {
	DishId         int     `json:"dish_id" binding:"required,min=1"`
	GramsPerPerson float64 `json:"grams_per_person"`
}

type CheckRequest struct {
	CalculateRequest
	UserPortions []UserPortion `json:"user_portions" binding:"required"`
}

// portionMap converts the portion list into the engine's per-dish map,
// requiring a non-negative portion for exactly the dishes in dish_ids.
func (r *CheckRequest) portionMap() (map[int]float64, error) {
	idSet := make(map[int]struct{}, len(r.DishIds))
	for _, id := range r.DishIds {
		idSet[id] = struct{}{}
	}
	portions := make(map[int]float64, len(r.UserPortions))
	for _, p := range r.UserPortions {
		if _, ok := idSet[p.DishId]; !ok {
			return nil, errors.Errorf("user_portions contains dish %d not in dish_ids", p.DishId)
		}
		if _, dup := portions[p.DishId]; dup {
			return nil, errors.Errorf("user_portions lists dish %d more than once", p.DishId)
		}
		if err := common.Validate.Var(p.GramsPerPerson, "min=0"); err != nil {
			return nil, errors.Errorf("portion for dish %d must be non-negative", p.DishId)
		}
		portions[p.DishId] = p.GramsPerPerson
	}
	for id := range idSet {
		if _, ok := portions[id]; !ok {
			return nil, errors.Errorf("user_portions is missing dish %d", id)
		}
	}
	return portions, nil
}

func Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(err, "invalid request"))
		return
	}
	portions, err := req.portionMap()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result, err := newCalculator().Check(engine.CheckRequest{
		Request:      req.toEngineRequest(),
		UserPortions: portions,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoDishes) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "No active dishes found for the given IDs.",
			})
			return
		}
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	monitor.ObserveCalculation("check", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    result,
	})
}
