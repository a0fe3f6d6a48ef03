package repository

import (
	"context"
	"errors"
	"fmt"

	"food-orders/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   DBPool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool DBPool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if order.Status == "" {
		order.Status = model.DefaultOrderStatus
	}

	query := `
		INSERT INTO orders (user_id, status, total)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, order.UserID, order.Status, order.Total).Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", order.UserID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// UpdateTotal stores a recomputed order total.
func (r *orderRepository) UpdateTotal(ctx context.Context, tx pgx.Tx, orderID int64, total decimal.Decimal) error {
	query := `
		UPDATE orders
		SET total = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, orderID, total); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to update order total")
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's orders, newest first, with their items.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	ordersQuery := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, ordersQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := []model.Order{}
	index := make(map[int64]int)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			rows.Close()
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	// Products are joined loosely so an item whose product has vanished
	// still shows up, just without its summary.
	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       p.id, p.name, p.description, p.price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = $1
		ORDER BY oi.order_id, oi.id
	`

	itemRows, err := r.pool.Query(ctx, itemsQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item         model.OrderItem
			productID    *int64
			productName  *string
			productDesc  *string
			productPrice decimal.NullDecimal
		)
		err := itemRows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&productID, &productName, &productDesc, &productPrice,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		if productID != nil {
			summary := &model.ProductSummary{ID: *productID, Price: productPrice.Decimal}
			if productName != nil {
				summary.Name = *productName
			}
			if productDesc != nil {
				summary.Description = *productDesc
			}
			item.Product = summary
		}

		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	if err := itemRows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return orders, nil
}

// GetByIDForUser retrieves an order owned by userID, or nil when absent.
func (r *orderRepository) GetByIDForUser(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	query := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	return r.scanOrder(r.pool.QueryRow(ctx, query, orderID, userID), orderID)
}

// LockForUser retrieves and locks an order owned by userID, or nil when absent.
func (r *orderRepository) LockForUser(ctx context.Context, tx pgx.Tx, orderID, userID int64) (*model.Order, error) {
	query := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`

	return r.scanOrder(tx.QueryRow(ctx, query, orderID, userID), orderID)
}

func (r *orderRepository) scanOrder(row pgx.Row, orderID int64) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", orderID).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

// GetItems retrieves and locks the items of an order.
func (r *orderRepository) GetItems(ctx context.Context, tx pgx.Tx, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// UpdateItemQuantity changes the quantity of an order item.
func (r *orderRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID int64, quantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, itemID, quantity); err != nil {
		r.logger.Error().
			Err(err).
			Int64("item_id", itemID).
			Int("quantity", quantity).
			Msg("failed to update order item")
		return fmt.Errorf("failed to update order item: %w", err)
	}

	return nil
}

// Delete removes the items of an order and then the order itself.
func (r *orderRepository) Delete(ctx context.Context, tx pgx.Tx, orderID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to delete order items")
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	r.logger.Debug().Int64("order_id", orderID).Msg("order deleted")

	return nil
}
