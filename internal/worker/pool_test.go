package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ExecutePreservesOrder(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(4, func(ctx context.Context, n int) (int, error) {
		calls.Add(1)
		return n * n, nil
	})

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tasks := pool.Execute(context.Background(), inputs)

	require.Len(t, tasks, len(inputs))
	for i, task := range tasks {
		assert.Equal(t, inputs[i], task.Input)
		assert.Equal(t, inputs[i]*inputs[i], task.Result)
		assert.NoError(t, task.Err)
	}
	assert.Equal(t, int32(len(inputs)), calls.Load())
}

func TestPool_Errors(t *testing.T) {
	boom := errors.New("boom")
	pool := NewPool(0, func(ctx context.Context, s string) (string, error) {
		if s == "bad" {
			return "", boom
		}
		return s, nil
	})

	tasks := pool.Execute(context.Background(), []string{"ok", "bad", "fine"})
	assert.NoError(t, tasks[0].Err)
	assert.ErrorIs(t, tasks[1].Err, boom)
	assert.Equal(t, "fine", tasks[2].Result)
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(2, func(ctx context.Context, n int) (int, error) {
		return n, ctx.Err()
	})

	tasks := pool.Execute(ctx, []int{1, 2, 3})
	require.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.ErrorIs(t, task.Err, context.Canceled)
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool(3, func(ctx context.Context, n int) (int, error) { return n, nil })
	assert.Empty(t, pool.Execute(context.Background(), nil))
}
