package controller

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dastarkhwan/dastarkhwan/common/config"
	"github.com/dastarkhwan/dastarkhwan/engine"
	"github.com/dastarkhwan/dastarkhwan/middleware"
	"github.com/dastarkhwan/dastarkhwan/model"
	"github.com/dastarkhwan/dastarkhwan/monitor"
)

// defaultBigEatersPercentage applies when big_eaters is set without an
// explicit percentage.
const defaultBigEatersPercentage = 20

// calcCache memoises identical calculation requests. The engine is
// deterministic, so any rule change simply ages out within the TTL.
var calcCache = gocache.New(
	time.Duration(config.CalcCacheTTLSec)*time.Second, 10*time.Minute)

type CalculateRequest struct {
	DishIds             []int                      `json:"dish_ids" binding:"required,min=1,dive,min=1"`
	Guests              engine.GuestMix            `json:"guests"`
	BigEaters           bool                       `json:"big_eaters"`
	BigEatersPercentage float64                    `json:"big_eaters_percentage" binding:"min=0,max=100"`
	ConstraintOverrides engine.ConstraintOverrides `json:"constraint_overrides"`
}

func (r *CalculateRequest) toEngineRequest() engine.Request {
	pct := r.BigEatersPercentage
	if r.BigEaters && pct == 0 {
		pct = defaultBigEatersPercentage
	}
	return engine.Request{
		DishIDs:             r.DishIds,
		Guests:              r.Guests,
		BigEaters:           r.BigEaters,
		BigEatersPercentage: pct,
		ConstraintOverrides: r.ConstraintOverrides,
	}
}

func newCalculator() *engine.Calculator {
	catalogue := model.NewDishCatalogue()
	return engine.New(catalogue, model.NewRuleSettings(catalogue))
}

// calcCacheKey hashes the canonical request. Dish order does not affect
// the result, so ids are sorted before hashing.
func calcCacheKey(req engine.Request) string {
	ids := slices.Clone(req.DishIDs)
	slices.Sort(ids)
	canonical := req
	canonical.DishIDs = ids
	payload, _ := json.Marshal(canonical)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(err, "invalid request"))
		return
	}
	engineReq := req.toEngineRequest()

	var key string
	if config.CalcCacheTTLSec > 0 {
		key = calcCacheKey(engineReq)
		if cached, ok := calcCache.Get(key); ok {
			monitor.RecordCacheLookup(true)
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "",
				"data":    cached,
			})
			return
		}
		monitor.RecordCacheLookup(false)
	}

	start := time.Now()
	result, err := newCalculator().Calculate(engineReq)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	monitor.ObserveCalculation("calculate", time.Since(start))

	if config.CalcCacheTTLSec > 0 {
		calcCache.Set(key, result, time.Duration(config.CalcCacheTTLSec)*time.Second)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    result,
	})
}
