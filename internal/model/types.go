package model

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// SavedResult is one persisted card search as returned by /api/saved.
// It is the canonical type for storage, the HTTP API, and display.
type SavedResult struct {
	CardName    string       `json:"card_name"`
	Region      string       `json:"region"`
	LastResult  *PriceReport `json:"last_result,omitempty"`
	LastImage   string       `json:"last_image,omitempty"`
	LastUpdated string       `json:"last_updated,omitempty"`
	Confirmed   bool         `json:"confirmed"`
	Expired     bool         `json:"expired"`
}

// PriceReport is the aggregated outcome of one listing gather.
type PriceReport struct {
	Avg    Averages             `json:"avg"`
	Prices map[string][]float64 `json:"prices"`
}

// GradeAvg is one averaged price bucket keyed by grading label.
type GradeAvg struct {
	Grade string
	Value float64
}

// Listing is a single marketplace listing considered during a gather.
type Listing struct {
	Title    string
	Price    float64
	ImageURL string
}
