package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	jwtCfg := &config.JWTConfig{Secret: "test-secret"}
	svc := NewCustomerService(mysql.NewCustomerRepository(db), jwtCfg)
	ctx := context.Background()

	c, err := svc.Register(ctx, "neo@example.com", "neo", "s3cret")
	require.NoError(t, err)
	require.NotZero(t, c.ID)
	assert.False(t, c.IsAdmin)

	token, err := svc.Login(ctx, "neo@example.com", "s3cret")
	require.NoError(t, err)

	claims, err := auth.ParseToken(jwtCfg, token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, claims.CustomerID)
	assert.False(t, claims.IsAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(mysql.NewCustomerRepository(db), &config.JWTConfig{Secret: "s"})
	ctx := context.Background()

	_, err := svc.Register(ctx, "neo@example.com", "neo", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "neo@example.com", "wrong")
	assert.Error(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(mysql.NewCustomerRepository(db), &config.JWTConfig{Secret: "s"})

	_, err := svc.Login(context.Background(), "ghost@example.com", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(mysql.NewCustomerRepository(db), &config.JWTConfig{Secret: "s"})

	_, err := svc.Register(context.Background(), "", "neo", "s3cret")
	assert.ErrorIs(t, err, ErrValidation)
}
