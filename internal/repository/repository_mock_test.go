package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"food-orders/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zerolog.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}))

	user, err := repo.GetByUsername(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_GetByUsername_Found(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zerolog.Nop())
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
			AddRow(int64(7), "alice", "hash", now, now))

	user, err := repo.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zerolog.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), &model.User{Username: "alice", PasswordHash: "hash"})

	assert.ErrorIs(t, err, model.ErrUsernameTaken)
}

func TestUserRepository_Create_DatabaseError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zerolog.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "hash").
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &model.User{Username: "alice", PasswordHash: "hash"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrUsernameTaken)
	assert.Contains(t, err.Error(), "failed to create user")
}

func TestProductRepository_AdjustStock(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "product exists", affected: 1, want: true},
		{name: "product missing", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewProductRepository(mock, zerolog.Nop())
			ctx := context.Background()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
				WithArgs(int64(1), -3).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))
			mock.ExpectRollback()

			tx, err := mock.Begin(ctx)
			require.NoError(t, err)

			ok, err := repo.AdjustStock(ctx, tx, 1, -3)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			require.NoError(t, tx.Rollback(ctx))
		})
	}
}

func TestProductRepository_GetForUpdate_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProductRepository(mock, zerolog.Nop())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "stock", "created_at", "updated_at"}))
	mock.ExpectRollback()

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	product, err := repo.GetForUpdate(ctx, tx, 999)

	require.NoError(t, err)
	assert.Nil(t, product)
	require.NoError(t, tx.Rollback(ctx))
}

func TestProductRepository_GetForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProductRepository(mock, zerolog.Nop())
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "stock", "created_at", "updated_at"}).
			AddRow(int64(1), "Margherita Pizza", "Tomato, mozzarella and basil", decimal.RequireFromString("12.99"), 100, now, now))
	mock.ExpectRollback()

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	product, err := repo.GetForUpdate(ctx, tx, 1)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Margherita Pizza", product.Name)
	assert.Equal(t, 100, product.Stock)
	assert.True(t, decimal.RequireFromString("12.99").Equal(product.Price))
	require.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_GetByIDForUser_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock, zerolog.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(int64(5), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "total", "created_at", "updated_at"}))

	order, err := repo.GetByIDForUser(context.Background(), 5, 2)

	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestOrderRepository_GetByIDForUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock, zerolog.Nop())
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(int64(5), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "total", "created_at", "updated_at"}).
			AddRow(int64(5), int64(2), "preparing", decimal.RequireFromString("38.97"), now, now))

	order, err := repo.GetByIDForUser(context.Background(), 5, 2)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "preparing", order.Status)
}

func TestOrderRepository_BeginTx_Error(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock, zerolog.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	tx, err := repo.BeginTx(context.Background())

	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestOrderRepository_UpdateTotal(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock, zerolog.Nop())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WithArgs(int64(5), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTotal(ctx, tx, 5, decimal.RequireFromString("42.97")))
	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_Delete_ItemsFirst(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock, zerolog.Nop())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_items")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, tx, 5))
	require.NoError(t, tx.Commit(ctx))
}
