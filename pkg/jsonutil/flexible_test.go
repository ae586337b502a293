package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"hello"`, "hello"},
		{"integer", `42`, "42"},
		{"float", `3.5`, "3.5"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestFlexibleIntValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"integer", `12000`, 12000},
		{"float", `12000.0`, 12000},
		{"quoted", `"12000"`, 12000},
		{"quoted float", `"3.9"`, 3},
		{"null", `null`, 0},
		{"word", `"many"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleIntValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestFlexibleStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FlexibleStringSlice(json.RawMessage(`["a", "b"]`)))
	assert.Equal(t, []string{"a", "1"}, FlexibleStringSlice(json.RawMessage(`["a", 1]`)))
	assert.Equal(t, []string{"solo"}, FlexibleStringSlice(json.RawMessage(`"solo"`)))
	assert.Nil(t, FlexibleStringSlice(json.RawMessage(`null`)))
	assert.Empty(t, FlexibleStringSlice(json.RawMessage(`[]`)))
}
