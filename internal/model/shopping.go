package model

import "time"

type ShoppingItem struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	EstimatedPrice *float64  `json:"estimated_price"`
	Purchased      bool      `json:"purchased"`
	CreatedAt      time.Time `json:"created_at"`
}

type ShoppingSummary struct {
	PendingCount   int     `json:"pending_count"`
	PurchasedCount int     `json:"purchased_count"`
	TotalEstimated float64 `json:"total_estimated"`
}
