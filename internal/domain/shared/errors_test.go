package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	specific := NewDomainError("NOT_FOUND", "Product 42 not found")

	assert.True(t, errors.Is(specific, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("load product: %w", specific), ErrNotFound))
	assert.False(t, errors.Is(specific, ErrInvalidState))
	assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
}

func TestDomainError_As(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrInvalidInput)

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_INPUT", de.Code)
	assert.Equal(t, "Invalid input provided", de.Error())
}

func TestFilter_OffsetAndLimit(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		offset int
		limit  int
	}{
		{"default", DefaultFilter(), 0, 50},
		{"third page", Filter{Page: 3, PageSize: 20}, 40, 20},
		{"zero page size", Filter{Page: 2}, 50, 50},
		{"oversized page", Filter{Page: 1, PageSize: 10000}, 0, 500},
		{"negative page", Filter{Page: -1, PageSize: 10}, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, tt.filter.Offset())
			assert.Equal(t, tt.limit, tt.filter.Limit())
		})
	}
}
