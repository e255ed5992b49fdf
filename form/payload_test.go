package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCategories(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{"a,b,", []string{"a", "b", ""}},
		{"", []string{""}},
		{" electronics , books", []string{" electronics ", " books"}},
		{"x,x", []string{"x", "x"}},
		{",", []string{"", ""}},
		{"single", []string{"single"}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, SplitCategories(tc.input), "input %q", tc.input)
	}
}

func TestNewPayloadWireFormat(t *testing.T) {
	p := NewPayload(Values{
		DescriptionText: "Wireless mouse",
		CategoriesText:  "Electronics,Books,",
		ModelNameText:   "llama3.1",
	})

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"description":"Wireless mouse","categories":["Electronics","Books",""],"model_name":"llama3.1"}`,
		string(body))

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Len(t, fields, 3)
}

func TestNewPayloadKeepsEmptyValues(t *testing.T) {
	p := NewPayload(Values{})
	assert.Equal(t, Payload{Categories: []string{""}}, p)
}
