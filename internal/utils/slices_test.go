package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Unique_ShouldKeepFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{"MSFT", "AAPL"}, Unique([]string{"MSFT", "AAPL", "MSFT"}))
	assert.Equal(t, []string{}, Unique([]string{}))
}

func Test_Contains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2}, 2))
	assert.False(t, Contains(nil, "x"))
}
