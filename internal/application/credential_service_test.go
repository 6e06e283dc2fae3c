package application

import (
	"context"
	"testing"

	"github.com/ipede/negocio-verification-service/internal/infrastructure/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialService_UpdateCredential(t *testing.T) {
	ctx := context.Background()
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	accounts := new(MockAccountRepository)
	var stored string
	accounts.On("UpdatePassword", ctx, int64(42), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	service := NewCredentialService(accounts, hasher, zap.NewNop())
	require.NoError(t, service.UpdateCredential(ctx, 42, "NewSecret1"))

	assert.NotEqual(t, "NewSecret1", stored)
	ok, err := hasher.Compare(stored, "NewSecret1")
	require.NoError(t, err)
	assert.True(t, ok)
}
