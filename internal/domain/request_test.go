package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitByCapacity(t *testing.T) {
	t.Run("overflow is rejected in order", func(t *testing.T) {
		confirm, reject := SplitByCapacity([]int64{1, 2, 3}, 0, 2)
		assert.Equal(t, []int64{1, 2}, confirm)
		assert.Equal(t, []int64{3}, reject)
	})

	t.Run("existing confirmations count against the limit", func(t *testing.T) {
		confirm, reject := SplitByCapacity([]int64{1, 2, 3}, 2, 3)
		assert.Equal(t, []int64{1}, confirm)
		assert.Equal(t, []int64{2, 3}, reject)
	})

	t.Run("zero limit is unbounded", func(t *testing.T) {
		confirm, reject := SplitByCapacity([]int64{1, 2, 3}, 100, 0)
		assert.Equal(t, []int64{1, 2, 3}, confirm)
		assert.Empty(t, reject)
	})

	t.Run("already full rejects everything", func(t *testing.T) {
		confirm, reject := SplitByCapacity([]int64{1, 2}, 5, 5)
		assert.Empty(t, confirm)
		assert.Equal(t, []int64{1, 2}, reject)
	})

	t.Run("empty input", func(t *testing.T) {
		confirm, reject := SplitByCapacity(nil, 0, 2)
		assert.Empty(t, confirm)
		assert.Empty(t, reject)
	})
}
