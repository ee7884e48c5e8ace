package models

// Course is a catalog entry as served by the upstream courses API.
// It is fetched, rendered and discarded; nothing here is owned locally.
type Course struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	LevelTag      string  `json:"level_tag"`
	Description   string  `json:"description"`
	Duration      string  `json:"duration"`
	PurchaseCount int     `json:"purchase_count"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
}
