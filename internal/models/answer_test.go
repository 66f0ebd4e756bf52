// internal/models/answer_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCitationSet(t *testing.T) {
	c := make(CitationSet)
	c.Add("orders", "policies::chunk1", "", "orders")

	assert.Equal(t, []string{"orders", "policies::chunk1"}, c.Sorted())

	other := make(CitationSet)
	other.Add("products")

	merged := c.Union(other)
	assert.Equal(t, []string{"orders", "policies::chunk1", "products"}, merged.Sorted())

	// Union copies; neither operand changes.
	assert.Len(t, c, 2)
	assert.Len(t, other, 1)
}

func TestCitationSet_SortedEmpty(t *testing.T) {
	var c CitationSet
	assert.Equal(t, []string{}, c.Sorted())
}

func TestFormatHint_IsValid(t *testing.T) {
	for _, h := range KnownFormatHints {
		assert.True(t, h.IsValid(), string(h))
	}
	assert.False(t, FormatHint("integer").IsValid())
	assert.False(t, FormatHint("").IsValid())
}
