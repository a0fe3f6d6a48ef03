package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"food-orders/internal/events"
	"food-orders/internal/model"
	"food-orders/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// CreateOrder reserves stock for every item and stores a new order. Either
// every item is reserved and the order exists, or nothing changes.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, req *model.OrderRequest) (*model.Order, error) {
	lines := mergeLines(req.Items)
	order := &model.Order{UserID: userID, Status: model.DefaultOrderStatus}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		items := make([]model.OrderItem, 0, len(lines))

		for _, line := range lines {
			product, err := s.productRepo.GetForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				s.logger.Warn().Int64("product_id", line.ProductID).Msg("product not found")
				return model.NewProductNotFoundError(line.ProductID)
			}
			if product.Stock < line.Quantity {
				s.logger.Warn().
					Int64("product_id", product.ID).
					Int("stock", product.Stock).
					Int("quantity", line.Quantity).
					Msg("insufficient stock")
				return model.NewInsufficientStockError(product.Name)
			}

			if _, err := s.productRepo.AdjustStock(ctx, tx, product.ID, -line.Quantity); err != nil {
				return err
			}

			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
		}

		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return err
		}

		order.Items = items
		order.Total = model.CalculateTotal(items)

		return s.orderRepo.UpdateTotal(ctx, tx, order.ID, order.Total)
	})
	if err != nil {
		return nil, wrapUnlessDomain(err, "failed to create order")
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", userID).
		Int("item_count", len(order.Items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created successfully")

	s.publish(ctx, events.OrderCreated, order)

	return order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateOrder sets new quantities on items already in the order. Stock moves
// by the difference between the old and new quantity of each item, and the
// total is recomputed over all items from their captured prices.
func (s *orderService) UpdateOrder(ctx context.Context, userID, orderID int64, req *model.OrderRequest) (*model.Order, error) {
	lines := latestLines(req.Items)
	var order *model.Order

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.LockForUser(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return model.ErrOrderNotFound
		}

		items, err := s.orderRepo.GetItems(ctx, tx, orderID)
		if err != nil {
			return err
		}

		byProduct := make(map[int64]int, len(items))
		for i, item := range items {
			byProduct[item.ProductID] = i
		}

		for _, line := range lines {
			idx, ok := byProduct[line.ProductID]
			if !ok {
				return model.NewProductNotInOrderError(line.ProductID)
			}
			item := &items[idx]

			delta := line.Quantity - item.Quantity
			if delta != 0 {
				if err := s.moveStock(ctx, tx, item.ProductID, delta); err != nil {
					return err
				}
			}

			if err := s.orderRepo.UpdateItemQuantity(ctx, tx, item.ID, line.Quantity); err != nil {
				return err
			}
			item.Quantity = line.Quantity
		}

		order.Items = items
		order.Total = model.CalculateTotal(items)

		return s.orderRepo.UpdateTotal(ctx, tx, order.ID, order.Total)
	})
	if err != nil {
		return nil, wrapUnlessDomain(err, "failed to update order")
	}

	s.logger.Info().
		Int64("order_id", orderID).
		Str("total", order.Total.StringFixed(2)).
		Msg("order updated successfully")

	s.publish(ctx, events.OrderUpdated, order)

	return order, nil
}

// moveStock reserves delta more units of a product, or releases them when
// delta is negative. A product that no longer exists is left alone.
func (s *orderService) moveStock(ctx context.Context, tx pgx.Tx, productID int64, delta int) error {
	product, err := s.productRepo.GetForUpdate(ctx, tx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		s.logger.Warn().Int64("product_id", productID).Msg("product gone, stock not adjusted")
		return nil
	}
	if delta > 0 && product.Stock < delta {
		return model.NewInsufficientStockError(product.Name)
	}

	_, err = s.productRepo.AdjustStock(ctx, tx, productID, -delta)
	return err
}

// DeleteOrder puts every item's quantity back on its product and removes
// the order with its items.
func (s *orderService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	var order *model.Order

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.LockForUser(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return model.ErrOrderNotFound
		}

		items, err := s.orderRepo.GetItems(ctx, tx, orderID)
		if err != nil {
			return err
		}

		for _, item := range items {
			restored, err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !restored {
				s.logger.Warn().
					Int64("order_id", orderID).
					Int64("product_id", item.ProductID).
					Msg("product gone, stock restoration skipped")
			}
		}
		order.Items = items

		return s.orderRepo.Delete(ctx, tx, orderID)
	})
	if err != nil {
		return wrapUnlessDomain(err, "failed to delete order")
	}

	s.logger.Info().Int64("order_id", orderID).Msg("order deleted successfully")

	s.publish(ctx, events.OrderDeleted, order)

	return nil
}

// GetStatus returns the status of an order owned by userID.
func (s *orderService) GetStatus(ctx context.Context, userID, orderID int64) (string, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to get order")
		return "", fmt.Errorf("failed to get order status: %w", err)
	}
	if order == nil {
		return "", model.ErrOrderNotFound
	}

	return order.Status, nil
}

// inTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func (s *orderService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// publish emits an order event. Failures are logged and otherwise ignored.
func (s *orderService) publish(ctx context.Context, eventType events.EventType, order *model.Order) {
	env, err := events.NewOrderEvent(eventType, order, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to build order event")
		return
	}

	if err := s.publisher.Publish(context.WithoutCancel(ctx), env); err != nil {
		s.logger.Warn().
			Err(err).
			Int64("order_id", order.ID).
			Str("event_type", string(eventType)).
			Msg("order event not delivered")
	}
}

// mergeLines sums the quantities of repeated products and sorts the result
// by product id, which is also the order rows get locked in. A sum that would
// overflow saturates at math.MaxInt, which no stock level can cover.
func mergeLines(reqItems []model.OrderItemRequest) []model.OrderItemRequest {
	totals := make(map[int64]int, len(reqItems))
	for _, item := range reqItems {
		totals[item.ProductID] = addQuantity(totals[item.ProductID], item.Quantity)
	}
	return sortedLines(totals)
}

func addQuantity(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// latestLines keeps the last quantity given for each product, sorted by
// product id.
func latestLines(reqItems []model.OrderItemRequest) []model.OrderItemRequest {
	latest := make(map[int64]int, len(reqItems))
	for _, item := range reqItems {
		latest[item.ProductID] = item.Quantity
	}
	return sortedLines(latest)
}

func sortedLines(quantities map[int64]int) []model.OrderItemRequest {
	lines := make([]model.OrderItemRequest, 0, len(quantities))
	for id, qty := range quantities {
		lines = append(lines, model.OrderItemRequest{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// wrapUnlessDomain keeps DomainErrors as they are so the boundary can map
// them, and wraps everything else with context.
func wrapUnlessDomain(err error, msg string) error {
	if _, ok := model.AsDomainError(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
