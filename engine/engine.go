// Package engine implements the portioning pipeline: pool-based baseline
// allocation, constraint enforcement, guest-mix expansion, and the
// independent portion checker. The engine is a pure function of its snapshot
// inputs; all persistence lives behind the Catalogue interface and the
// settings snapshot resolved at the request boundary.
package engine

// Pool is the allocation group a dish category belongs to. The three
// budgetised pools are solved independently against their own ceilings;
// the service pool carries fixed per-person amounts.
type Pool string

const (
	PoolProtein       Pool = "protein"
	PoolAccompaniment Pool = "accompaniment"
	PoolDessert       Pool = "dessert"
	PoolService       Pool = "service"
)

// BudgetedPools lists the non-service pools in processing order. Adjustment
// ordering in results depends on this order.
var BudgetedPools = []Pool{PoolProtein, PoolAccompaniment, PoolDessert}

// Budgeted reports whether the pool is solved against a ceiling.
func (p Pool) Budgeted() bool {
	switch p {
	case PoolProtein, PoolAccompaniment, PoolDessert:
		return true
	case PoolService:
		return false
	}
	return false
}

// Unit is the measurement unit of a dish category.
type Unit string

const (
	UnitKg  Unit = "kg"
	UnitQty Unit = "qty"
)

// DishInput is the immutable catalogue snapshot of one dish, with its
// category attributes flattened in so the pipeline never chases references.
type DishInput struct {
	ID                  int
	Name                string
	CategoryID          int
	CategoryName        string
	ProteinType         string
	DefaultPortionGrams float64
	Popularity          float64
	CostPerGram         float64
	IsVegetarian        bool
	ProteinIsAdditive   bool
	Pool                Pool
	Unit                Unit
	BaselineBudgetGrams float64
	MinPerDishGrams     float64
	FixedPortionGrams   *float64
}

// GuestMix is the gents/ladies head count for an event.
type GuestMix struct {
	Gents  int `json:"gents" binding:"min=0"`
	Ladies int `json:"ladies" binding:"min=0"`
}

func (g GuestMix) Total() int {
	return g.Gents + g.Ladies
}

// Catalogue resolves dish identifiers and pool metadata. Implementations
// must be deterministic per call; the engine makes no caching assumptions.
type Catalogue interface {
	// LoadDishes resolves dish ids to snapshots, skipping inactive or
	// unknown ids. An empty result is valid.
	LoadDishes(ids []int) ([]DishInput, error)
	// PoolBaselines returns baseline grams for every category in the pool,
	// present in the menu or not.
	PoolBaselines(pool Pool) (map[int]float64, error)
	// CategoryNames returns display names for the given category ids in
	// catalogue order. Used only in adjustment messages.
	CategoryNames(ids []int) []string
	// PoolCategoryNames returns the display names of the pool's categories
	// in catalogue order.
	PoolCategoryNames(pool Pool) []string
}

// Request are the caller-supplied inputs of one calculation.
type Request struct {
	DishIDs             []int
	Guests              GuestMix
	BigEaters           bool
	BigEatersPercentage float64
	ConstraintOverrides ConstraintOverrides
}

// Portion is the per-dish output row after guest-mix expansion.
type Portion struct {
	DishID         int     `json:"dish_id"`
	DishName       string  `json:"dish_name"`
	Category       string  `json:"category"`
	ProteinType    string  `json:"protein_type,omitempty"`
	Pool           Pool    `json:"pool"`
	Unit           Unit    `json:"unit"`
	GramsPerPerson float64 `json:"grams_per_person"`
	GramsPerGent   float64 `json:"grams_per_gent"`
	GramsPerLady   float64 `json:"grams_per_lady"`
	TotalGrams     float64 `json:"total_grams"`
	CostPerGent    float64 `json:"cost_per_gent,omitempty"`
	TotalCost      float64 `json:"total_cost,omitempty"`
}

// Totals aggregates a result. Grams are rounded to 1 dp, money to 2 dp.
type Totals struct {
	FoodPerGentGrams      float64 `json:"food_per_gent_grams"`
	FoodPerLadyGrams      float64 `json:"food_per_lady_grams"`
	FoodPerPersonGrams    float64 `json:"food_per_person_grams"`
	ProteinPerPersonGrams float64 `json:"protein_per_person_grams"`
	TotalFoodWeightGrams  float64 `json:"total_food_weight_grams"`
	TotalCost             float64 `json:"total_cost"`
}

// Result is the full calculation output. Warnings are advisory; adjustments
// record every change the pipeline applied, in discovery order.
type Result struct {
	Portions           []Portion `json:"portions"`
	Totals             Totals    `json:"totals"`
	Warnings           []string  `json:"warnings"`
	AdjustmentsApplied []string  `json:"adjustments_applied"`
	Source             string    `json:"source,omitempty"`
}
