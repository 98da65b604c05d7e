package mail

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthError(t *testing.T) {
	base := &AuthError{Username: "ana@example.com", Message: "login rejected"}

	assert.True(t, IsAuthError(base))
	assert.True(t, IsAuthError(fmt.Errorf("connecting: %w", base)))
	assert.False(t, IsAuthError(errors.New("connection refused")))
	assert.False(t, IsAuthError(nil))

	assert.Contains(t, base.Error(), "ana@example.com")
	assert.Contains(t, base.Error(), "login rejected")
}
