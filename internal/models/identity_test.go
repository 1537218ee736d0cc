package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello_world"},
		{"  Go 1.25 is out!  ", "go_1_25_is_out"},
		{"Crème brûlée recipes", "creme_brulee_recipes"},
		{"안녕 하세요", "안녕_하세요"},
		{"???", "post"},
		{"", "post"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestNewIdentifier(t *testing.T) {
	a := NewIdentifier(8)
	b := NewIdentifier(8)

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
	assert.Len(t, NewIdentifier(64), 32)
}
