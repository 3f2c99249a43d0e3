package support

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Page(items, 0, 0))
	assert.Equal(t, []int{3, 4}, Page(items, 2, 2))
	assert.Equal(t, []int{5}, Page(items, 10, 4))
	assert.Empty(t, Page(items, 2, 9))
	assert.Equal(t, []int{1, 2}, Page(items, 2, -3))
}

func TestPage_HugeLimit(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{2, 3}, Page(items, math.MaxInt, 1))
	assert.Equal(t, []int{3}, Page(items, math.MaxInt-1, 2))
}
