package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPageParams(t *testing.T) {
	p := DefaultPageParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name         string
		input        PageParams
		wantPage     int
		wantPageSize int
	}{
		{"valid", PageParams{Page: 3, PageSize: 20}, 3, 20},
		{"zero page", PageParams{Page: 0, PageSize: 20}, 1, 20},
		{"negative page", PageParams{Page: -2, PageSize: 5}, 1, 5},
		{"zero size", PageParams{Page: 2, PageSize: 0}, 2, DefaultPageSize},
		{"size over max", PageParams{Page: 1, PageSize: 5000}, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.input
			p.Validate()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, PageSize: 2}.Offset())
	assert.Equal(t, 2, PageParams{Page: 2, PageSize: 2}.Offset())
	assert.Equal(t, 40, PageParams{Page: 5, PageSize: 10}.Offset())
}
