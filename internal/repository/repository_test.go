package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateSort(t *testing.T) {
	got, err := ParseTemplateSort("")
	require.NoError(t, err)
	assert.Equal(t, SortByCreated, got)

	for _, s := range []string{"created_at", "rating", "usage_count"} {
		got, err := ParseTemplateSort(s)
		require.NoError(t, err)
		assert.Equal(t, TemplateSort(s), got)
	}

	_, err = ParseTemplateSort("name")
	assert.Error(t, err)

	// raw column injection attempts are just unknown keys
	_, err = ParseTemplateSort("rating; DROP TABLE templates")
	assert.Error(t, err)
}

func TestWithRetrySurfacesConflict(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		return errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxRetries, calls)
}

func TestWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		if calls == 1 {
			return errors.New("could not serialize access due to concurrent update")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryPassesThroughPermanentErrors(t *testing.T) {
	permanent := errors.New("duplicate key value violates unique constraint")
	calls := 0
	err := withRetry(func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}
