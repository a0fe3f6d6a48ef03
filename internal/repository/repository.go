package repository

import (
	"context"

	"food-orders/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBPool is the subset of *pgxpool.Pool used by the repositories.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// GetByUsername returns the user with the given username, or nil when absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Create inserts a user and fills in its id and timestamps.
	// Returns model.ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *model.User) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves every product ordered by id.
	List(ctx context.Context) ([]model.Product, error)

	// GetForUpdate reads a product and locks its row until tx ends.
	// Returns nil when the product does not exist.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)

	// AdjustStock adds delta (which may be negative) to a product's stock.
	// Reports false when the product does not exist.
	AdjustStock(ctx context.Context, tx pgx.Tx, id int64, delta int) (bool, error)

	// UpsertByName inserts new products and refreshes the description and
	// price of existing ones sharing a name. Existing stock is not touched.
	UpsertByName(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and
	// fills in its id, status and timestamps.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction
	// and fills in their ids.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// UpdateTotal stores a recomputed order total.
	UpdateTotal(ctx context.Context, tx pgx.Tx, orderID int64, total decimal.Decimal) error

	// ListByUser retrieves a user's orders, newest first, with their items
	// and each item's product summary.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// GetByIDForUser retrieves an order owned by userID, or nil when absent.
	GetByIDForUser(ctx context.Context, orderID, userID int64) (*model.Order, error)

	// LockForUser retrieves and locks an order owned by userID, or nil when absent.
	LockForUser(ctx context.Context, tx pgx.Tx, orderID, userID int64) (*model.Order, error)

	// GetItems retrieves and locks the items of an order.
	GetItems(ctx context.Context, tx pgx.Tx, orderID int64) ([]model.OrderItem, error)

	// UpdateItemQuantity changes the quantity of an order item.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID int64, quantity int) error

	// Delete removes an order and all of its items.
	Delete(ctx context.Context, tx pgx.Tx, orderID int64) error
}
