package httpapi

import (
	"testing"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaybeJSON(t *testing.T) {
	tests := []struct {
		raw      string
		expected []string
	}{
		{raw: `["spicy","vegan"]`, expected: []string{"spicy", "vegan"}},
		{raw: `spicy, vegan ,`, expected: []string{"spicy", "vegan"}},
		{raw: `spicy`, expected: []string{"spicy"}},
		{raw: ``, expected: nil},
	}

	for _, testCase := range tests {
		t.Run(testCase.raw, func(t *testing.T) {
			var tags []string
			require.NoError(t, parseMaybeJSON(testCase.raw, &tags))
			assert.Equal(t, testCase.expected, tags)
		})
	}

	var dietary domain.DietaryInfo
	require.NoError(t, parseMaybeJSON(`{"is_vegetarian":true}`, &dietary))
	assert.True(t, dietary.IsVegetarian)
	assert.Error(t, parseMaybeJSON(`vegetarian`, &dietary))
}
