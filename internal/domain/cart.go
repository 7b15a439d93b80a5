package domain

import "time"

type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ProduceID int64     `json:"produce_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
	AddedAt   time.Time `json:"added_at"`
}
