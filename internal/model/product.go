package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a dish in the food catalogue.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"-" db:"created_at"`
	UpdatedAt   time.Time       `json:"-" db:"updated_at"`
}

// ProductSummary is the product view nested inside order items.
type ProductSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}
