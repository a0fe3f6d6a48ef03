package service

import (
	"context"

	"food-orders/internal/model"
)

// UserService registers and authenticates users.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns model.ErrUsernameTaken when the username already exists.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Authenticate checks credentials and issues a bearer token.
	// Returns model.ErrInvalidCredentials on an unknown user or wrong password.
	Authenticate(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error)
}

// ProductService defines operations for the product catalog.
type ProductService interface {
	// List retrieves every product.
	List(ctx context.Context) ([]model.Product, error)
}

// OrderService manages the order lifecycle and the stock it reserves.
type OrderService interface {
	// CreateOrder reserves stock for every item and stores a new order.
	CreateOrder(ctx context.Context, userID int64, req *model.OrderRequest) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateOrder changes item quantities and recomputes the total.
	UpdateOrder(ctx context.Context, userID, orderID int64, req *model.OrderRequest) (*model.Order, error)

	// DeleteOrder restores reserved stock and removes the order.
	DeleteOrder(ctx context.Context, userID, orderID int64) error

	// GetStatus returns the status of an order owned by userID.
	GetStatus(ctx context.Context, userID, orderID int64) (string, error)
}
