//go:build integration

package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDBName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
	}{
		{name: "subtests", input: "TestCart/add item", prefix: "TestCart_add_item_"},
		{name: "dots", input: "Test.v2", prefix: "Test_v2_"},
		{name: "long names are cut", input: strings.Repeat("a", 80), prefix: strings.Repeat("a", 50) + "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDBName(tt.input)
			assert.True(t, strings.HasPrefix(got, tt.prefix), got)
			assert.LessOrEqual(t, len(got), 63)
		})
	}
}
