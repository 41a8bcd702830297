package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Empty(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Err())
}

func TestErrors_Add(t *testing.T) {
	var errs Errors
	errs.Add("amount", "must be greater than zero")
	errs.Add("due_date", "must not be before %s", "2025-01-10")

	err := errs.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount: must be greater than zero")
	assert.Contains(t, err.Error(), "due_date: must not be before 2025-01-10")
	assert.True(t, errs.Has("amount"))
	assert.False(t, errs.Has("description"))
	assert.Len(t, errs.Messages(), 2)
}

func TestAs_Wrapped(t *testing.T) {
	var errs Errors
	errs.Add("name", "required")
	wrapped := fmt.Errorf("creating contact: %w", errs.Err())

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "name", got[0].Field)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
