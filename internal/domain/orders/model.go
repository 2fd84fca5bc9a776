package orders

import "time"

// Line is one measurement snapshot frozen into a submitted order.
type Line struct {
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	WidthCm      float64 `json:"width_cm"`
	HeightCm     float64 `json:"height_cm"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

// Selection records what the customer ended up with: the category plus either
// a concrete material or the matched combined entry, and the assembled
// component ids for combined orders.
type Selection struct {
	Category          string   `json:"category"`
	MaterialID        string   `json:"material_id,omitempty"`
	MaterialName      string   `json:"material_name,omitempty"`
	ComponentIDs      []string `json:"component_ids,omitempty"`
	CustomDescription string   `json:"custom_description,omitempty"`
}

// Order is the finalized record handed to the store when the wizard submits.
type Order struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	TaxID       string
	Address     string
	Region      string
	Goal        string

	Lines      []Line
	Selection  Selection
	TotalPrice float64
	TotalUnits int
	Outcome    string
	PriceShown bool

	CreatedAt time.Time
}
