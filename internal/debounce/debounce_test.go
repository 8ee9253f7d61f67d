package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type result struct {
	value string
	fire  bool
	err   error
}

func TestWait_OnlyLastOfBurstFires(t *testing.T) {
	c := New(200 * time.Millisecond)
	ctx := context.Background()

	results := make(chan result, 3)
	var wg sync.WaitGroup
	for _, q := range []string{"br", "bra", "brak"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			fire, err := c.Wait(ctx, "client-1:shop", q)
			results <- result{value: q, fire: fire, err: err}
		}(q)
		// Keystrokes arrive well inside the quiet period.
		require.Eventually(t, func() bool {
			v, ok := c.Latest("client-1:shop")
			return ok && v == q
		}, time.Second, time.Millisecond)
	}
	wg.Wait()
	close(results)

	var fired []string
	for r := range results {
		require.NoError(t, r.err)
		if r.fire {
			fired = append(fired, r.value)
		}
	}
	assert.Equal(t, []string{"brak"}, fired)
	assert.Zero(t, c.Pending())
}

func TestWait_KeysAreIndependent(t *testing.T) {
	c := New(20 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	fires := make([]bool, 2)
	for i, key := range []string{"a:shop", "b:shop"} {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			fires[i], _ = c.Wait(ctx, key, "pads")
		}(i, key)
	}
	wg.Wait()

	assert.Equal(t, []bool{true, true}, fires)
}

func TestWait_SeparateBurstsBothFire(t *testing.T) {
	c := New(10 * time.Millisecond)
	ctx := context.Background()

	fire, err := c.Wait(ctx, "k", "oil")
	require.NoError(t, err)
	assert.True(t, fire)

	fire, err = c.Wait(ctx, "k", "oil filter")
	require.NoError(t, err)
	assert.True(t, fire)
}

func TestWait_CanceledContext(t *testing.T) {
	c := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Wait(ctx, "k", "x")
		done <- err
	}()
	require.Eventually(t, func() bool { return c.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
	assert.Zero(t, c.Pending())
}

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, New(0).Delay())
}
