package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-orders/internal/auth"
	"food-orders/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, new(MockTokenIssuer), zerolog.Nop())

	repo.On("GetByUsername", ctx, "alice").Return(nil, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && auth.CheckPassword(u.PasswordHash, "secret1")
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)

	user, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	repo.AssertExpectations(t)
}

func TestUserService_Register_Conflict(t *testing.T) {
	ctx := context.Background()

	t.Run("existing username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockTokenIssuer), zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Password: "secret1"})

		assert.ErrorIs(t, err, model.ErrUsernameTaken)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent registration", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockTokenIssuer), zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(nil, nil)
		repo.On("Create", ctx, mock.Anything).Return(model.ErrUsernameTaken)

		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Password: "secret1"})

		assert.Equal(t, model.KindConflict, model.KindOf(err))
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockTokenIssuer), zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(nil, errors.New("db down"))

		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Password: "secret1"})

		require.Error(t, err)
		assert.Equal(t, model.KindInternal, model.KindOf(err))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	stored := &model.User{ID: 7, Username: "alice", PasswordHash: hash}
	expires := time.Now().Add(24 * time.Hour)

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenIssuer)
		svc := NewUserService(repo, tokens, zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(stored, nil)
		tokens.On("Issue", int64(7), "alice").Return("signed.token", expires, nil)

		result, err := svc.Authenticate(ctx, &model.LoginRequest{Username: "alice", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "signed.token", result.Token)
		assert.Equal(t, model.UserSummary{ID: 7, Username: "alice"}, result.User)
		assert.Equal(t, expires, result.ExpiresAt)
		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenIssuer)
		svc := NewUserService(repo, tokens, zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(stored, nil)

		_, err := svc.Authenticate(ctx, &model.LoginRequest{Username: "alice", Password: "wrong!"})

		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockTokenIssuer), zerolog.Nop())
		repo.On("GetByUsername", ctx, "bob").Return(nil, nil)

		_, err := svc.Authenticate(ctx, &model.LoginRequest{Username: "bob", Password: "secret1"})

		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("signing failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenIssuer)
		svc := NewUserService(repo, tokens, zerolog.Nop())
		repo.On("GetByUsername", ctx, "alice").Return(stored, nil)
		tokens.On("Issue", int64(7), "alice").Return("", time.Time{}, errors.New("bad key"))

		_, err := svc.Authenticate(ctx, &model.LoginRequest{Username: "alice", Password: "secret1"})

		require.Error(t, err)
		assert.Equal(t, model.KindInternal, model.KindOf(err))
	})
}
