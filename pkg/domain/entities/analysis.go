package entities

// InputAnalysis describes one input's share of a recipe's per-unit cost
type InputAnalysis struct {
	Item         ItemName `json:"item"`
	Quantity     float64  `json:"quantity"` // per unit of output
	WPPerItem    float64  `json:"wp_per_item"`
	PowerPerItem float64  `json:"power_per_item"`
}

// RecipeAnalysis is the per-unit cost of producing an item with one specific recipe
type RecipeAnalysis struct {
	RecipeName string          `json:"recipe_name"`
	Inputs     []InputAnalysis `json:"inputs"`
	WP         float64         `json:"wp"`
	Power      float64         `json:"power"`
	Rate       float64         `json:"rate"`    // items per minute at one machine
	WPFlow     float64         `json:"wp_flow"` // item wp times items per second at one machine
}

// ItemAnalysis holds the minimal achievable cost of an item and every recipe that can produce it
type ItemAnalysis struct {
	WP              float64          `json:"wp"`
	Power           float64          `json:"power"`
	RecipeBreakdown []RecipeAnalysis `json:"recipes_analysis"`
}

// AnalysisMap is the result of cost propagation keyed by item
type AnalysisMap map[ItemName]*ItemAnalysis
