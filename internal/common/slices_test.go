package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceShape(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		empty    bool
		single   bool
		multiple bool
		first    string
		ok       bool
	}{
		{name: "nil", empty: true},
		{name: "one", in: []string{"a"}, single: true, first: "a", ok: true},
		{name: "two", in: []string{"b", "a"}, multiple: true, first: "b", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, IsEmpty(tt.in))
			assert.Equal(t, tt.single, IsSingle(tt.in))
			assert.Equal(t, tt.multiple, IsMultiple(tt.in))

			first, ok := First(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	assert.Empty(t, SortedKeys(map[string]int(nil)))
}
