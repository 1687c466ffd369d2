package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		ok   bool
	}{
		{"not found", NotFound("Account", "a1"), CodeNotFound, true},
		{"validation", Validation("bad %s", "input"), CodeValidation, true},
		{"database", Database("get account", errors.New("conn reset")), CodeDatabase, true},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("Loan", "l1")), CodeNotFound, true},
		{"plain", errors.New("plain"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := CodeOf(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestDatabase_KeepsTaxonomyErrors(t *testing.T) {
	assert.NoError(t, Database("op", nil))

	ve := Validation("Account is required")
	assert.Same(t, ve, Database("op", ve))

	cause := errors.New("deadlock")
	err := Database("update balance", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database error: update balance: deadlock", err.Error())
}

func TestLookup(t *testing.T) {
	assert.NoError(t, Lookup("get", "Account", "a1", nil))

	err := Lookup("get", "Account", "a1", storage.ErrNotFound)
	require.True(t, IsNotFound(err))
	assert.Equal(t, "Account with id 'a1' not found", err.Error())

	err = Lookup("get", "Account", "a1", errors.New("timeout"))
	code, _ := CodeOf(err)
	assert.Equal(t, CodeDatabase, code)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}
