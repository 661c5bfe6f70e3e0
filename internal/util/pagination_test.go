package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size    string
		offset, limit int
	}{
		{"1", "10", 0, 10},
		{"3", "20", 40, 20},
		{"", "", 0, DefaultPageSize},
		{"0", "0", 0, DefaultPageSize},
		{"-2", "500", 0, DefaultPageSize},
		{"two", "x", 0, DefaultPageSize},
		{"2", "100", 100, 100},
	}
	for _, tt := range tests {
		offset, limit := Window(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page=%q size=%q", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%q size=%q", tt.page, tt.size)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}
