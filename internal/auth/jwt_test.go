package auth_test

import (
	"testing"

	"boardsync/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	// Arrange
	issuer := auth.NewTokenIssuer("test-secret-key", 24)
	userID := uuid.New().String()

	// Act
	token, err := issuer.GenerateToken(userID)
	assert.NoError(t, err)
	parsed, err := issuer.ParseToken(token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	// Arrange
	issuer := auth.NewTokenIssuer("test-secret-key", 24)
	other := auth.NewTokenIssuer("another-secret", 24)

	token, err := issuer.GenerateToken(uuid.New().String())
	assert.NoError(t, err)

	// Act
	parsed, err := other.ParseToken(token)

	// Assert
	assert.Error(t, err)
	assert.Empty(t, parsed)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret-key", 24)

	parsed, err := issuer.ParseToken("not-a-token")

	assert.Error(t, err)
	assert.Empty(t, parsed)
}
