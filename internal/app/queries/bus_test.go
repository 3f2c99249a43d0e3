package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ N int }

func (countQuery) Key() string { return "test.count" }

func TestAsk(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[countQuery, []int](bus, countQuery{}.Key(), HandlerFunc[countQuery, []int](
		func(ctx context.Context, q countQuery) ([]int, error) {
			out := make([]int, q.N)
			for i := range out {
				out[i] = i
			}
			return out, nil
		},
	))

	got, err := Ask[countQuery, []int](context.Background(), bus, countQuery{N: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	_, err = Ask[countQuery, string](context.Background(), bus, countQuery{N: 1})
	assert.ErrorIs(t, err, ErrResultType)
}

func TestAsk_UnknownQuery(t *testing.T) {
	_, err := Ask[countQuery, int](context.Background(), NewInMemoryBus(), countQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}
