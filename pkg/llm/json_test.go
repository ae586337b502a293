package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "bare object",
			response: `{"a": 1}`,
			want:     `{"a": 1}`,
		},
		{
			name:     "bare array",
			response: `[{"a": 1}]`,
			want:     `[{"a": 1}]`,
		},
		{
			name:     "markdown fenced",
			response: "```json\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "prose before and after",
			response: `Here is the breakdown: [{"a": 1}, {"a": 2}] Hope that helps!`,
			want:     `[{"a": 1}, {"a": 2}]`,
		},
		{
			name:     "think tags stripped",
			response: "<think>let me reason about scenes</think>\n{\"a\": 1}",
			want:     `{"a": 1}`,
		},
		{
			name:     "braces inside strings",
			response: `{"description": "INT. OFFICE - DAY {night?}", "n": 1}`,
			want:     `{"description": "INT. OFFICE - DAY {night?}", "n": 1}`,
		},
		{
			name:     "escaped quotes inside strings",
			response: `{"line": "she said \"go\" and left"}`,
			want:     `{"line": "she said \"go\" and left"}`,
		},
		{
			name:     "no json at all",
			response: "I could not produce a breakdown for this script.",
			wantErr:  true,
		},
		{
			name:     "unterminated object",
			response: `{"a": 1`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_ArrayShape(t *testing.T) {
	t.Run("array passes through", func(t *testing.T) {
		result, err := Normalize(`[{"a": 1}]`, ShapeArray)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"a": 1}]`, string(result.Array))
		assert.Nil(t, result.Object)
	})

	t.Run("single object is wrapped", func(t *testing.T) {
		result, err := Normalize(`{"a": 1}`, ShapeArray)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"a": 1}]`, string(result.Array))
	})

	t.Run("prose-wrapped object is wrapped", func(t *testing.T) {
		result, err := Normalize("Sure!\n```json\n{\"a\": 1}\n```", ShapeArray)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"a": 1}]`, string(result.Array))
	})

	t.Run("garbage is a ParseError carrying the raw text", func(t *testing.T) {
		_, err := Normalize("no json here", ShapeArray)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "no json here", parseErr.Raw)
		assert.Equal(t, ShapeArray, parseErr.Shape)
	})
}

func TestNormalize_ObjectShape(t *testing.T) {
	t.Run("object passes through", func(t *testing.T) {
		result, err := Normalize(`{"total_budget": 100}`, ShapeObject)
		require.NoError(t, err)
		assert.JSONEq(t, `{"total_budget": 100}`, string(result.Object))
		assert.Nil(t, result.Array)
	})

	t.Run("array yields first object element", func(t *testing.T) {
		result, err := Normalize(`[{"a": 1}, {"a": 2}]`, ShapeObject)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, string(result.Object))
	})

	t.Run("array of scalars fails", func(t *testing.T) {
		_, err := Normalize(`[1, 2, 3]`, ShapeObject)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestNormalize_TextShapeRejected(t *testing.T) {
	_, err := Normalize("plain prose", ShapeText)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeArray(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	items, err := DecodeArray[item]("```json\n[{\"name\": \"RIPLEY\"}]\n```")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RIPLEY", items[0].Name)

	_, err = DecodeArray[item](`[{"name": 42}]`)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeObject(t *testing.T) {
	type plan struct {
		TotalBudget int `json:"total_budget"`
	}

	got, err := DecodeObject[plan](`The plan: {"total_budget": 25000000}`)
	require.NoError(t, err)
	assert.Equal(t, 25000000, got.TotalBudget)
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ParseError{Shape: ShapeArray, Raw: "x", Cause: cause}
	assert.ErrorIs(t, err, cause)
}

func TestNormalizedResultRoundTrip(t *testing.T) {
	// Wrapped single objects must still decode as a typed slice.
	result, err := Normalize(`{"scene_number": 3}`, ShapeArray)
	require.NoError(t, err)

	var scenes []struct {
		SceneNumber int `json:"scene_number"`
	}
	require.NoError(t, json.Unmarshal(result.Array, &scenes))
	require.Len(t, scenes, 1)
	assert.Equal(t, 3, scenes[0].SceneNumber)
}
