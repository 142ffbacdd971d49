package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOffset(t *testing.T) {
	tests := []struct {
		name string
		page Pagination
		want int
	}{
		{"unpaginated", Pagination{}, 0},
		{"first page", Pagination{Page: 1, Limit: 10}, 0},
		{"third page", Pagination{Page: 3, Limit: 25}, 50},
		{"page below one", Pagination{Page: 0, Limit: 10}, 0},
		{"saturates instead of overflowing", Pagination{Page: math.MaxInt, Limit: 10}, math.MaxInt},
		{"largest exact offset", Pagination{Page: math.MaxInt/100 + 1, Limit: 100}, math.MaxInt / 100 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.Offset())
		})
	}
}
