package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOrderStatus is assigned to every new order.
const DefaultOrderStatus = "preparing"

// Order represents a customer order.
type Order struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Status    string          `json:"status" db:"status"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
	Items     []OrderItem     `json:"items"`
}

// OrderItem represents a line item in an order. Price is the unit price
// captured when the item was ordered.
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Product   *ProductSummary `json:"product,omitempty"`
}

// Subtotal returns quantity times the captured unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal sums the subtotals of items, rounded to cents.
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// OrderRequest represents the request payload for creating or updating an order.
type OrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// MaxQuantity is the largest quantity a single order line may carry. It is the
// upper bound of the INTEGER quantity and stock columns.
const MaxQuantity = math.MaxInt32

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}
