package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCaller() *Caller {
	c := New(zap.NewNop())
	c.Base = time.Millisecond
	return c
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := testCaller().Do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := testCaller().Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return Transient("op", errors.New("rate limited"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	err := testCaller().Do(context.Background(), "op", func(context.Context) error {
		calls++
		return Transient("op", errors.New("still down"))
	})
	require.Error(t, err)
	// initial attempt + 3 retries
	assert.Equal(t, 4, calls)
	assert.Equal(t, KindTransient, KindOf(err))
}

func TestDoDoesNotRetryTerminalKinds(t *testing.T) {
	for _, kind := range []struct {
		name string
		err  error
	}{
		{"not found", NotFound("op", errors.New("missing"))},
		{"validation", Validation("op", errors.New("bad input"))},
		{"content policy", ContentPolicy("op", errors.New("refused"))},
		{"storage", Storage("op", errors.New("disk"))},
	} {
		t.Run(kind.name, func(t *testing.T) {
			calls := 0
			err := testCaller().Do(context.Background(), "op", func(context.Context) error {
				calls++
				return kind.err
			})
			require.Error(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestDoAbortsBackoffOnCancel(t *testing.T) {
	c := New(zap.NewNop())
	c.Base = time.Hour // cancellation must win, not the timer

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Do(ctx, "op", func(context.Context) error {
			return Transient("op", errors.New("down"))
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDoValueReturnsValue(t *testing.T) {
	v, err := DoValue(context.Background(), testCaller(), "op", func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("op", nil)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))

	wrapped := errors.Join(errors.New("outer"), Transient("op", errors.New("inner")))
	assert.Equal(t, KindTransient, KindOf(wrapped))
	assert.True(t, IsTransient(wrapped))
}
