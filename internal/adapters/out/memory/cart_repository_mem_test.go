package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko/internal/adapters/out/memory"
	cartdom "toko/internal/domain/cart"
)

func addLine(qty int) func(c *cartdom.Cart) error {
	return func(c *cartdom.Cart) error {
		return c.Add(cartdom.LineItem{
			ProductID: "p1", Color: "Hitam", Qty: qty, ReservedQty: qty, Price: 199000, Name: "Jam",
		}, time.Now())
	}
}

func TestGetByUserIDAbsent(t *testing.T) {
	repo := memory.NewCartRepository()

	c, err := repo.GetByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestMutateCreatesThenUpdates(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx := context.Background()

	c, err := repo.Mutate(ctx, "u1", addLine(2))
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	c, err = repo.Mutate(ctx, "u1", addLine(3))
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
}

func TestMutateErrorDiscardsChanges(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx := context.Background()

	_, err := repo.Mutate(ctx, "u1", addLine(2))
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = repo.Mutate(ctx, "u1", func(c *cartdom.Cart) error {
		c.Items = nil // would wipe the cart if committed
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1, "failed mutation left the stored cart untouched")
	assert.Equal(t, 2, c.Items[0].Qty)
}

func TestMutateRequiresUserID(t *testing.T) {
	repo := memory.NewCartRepository()

	_, err := repo.Mutate(context.Background(), "  ", addLine(1))
	require.ErrorIs(t, err, cartdom.ErrInvalidCart)
}

func waitCart(t *testing.T, ch <-chan cartdom.Cart) cartdom.Cart {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "watch channel closed unexpectedly")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cart state")
		return cartdom.Cart{}
	}
}

func TestWatchDeliversCurrentStateFirst(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx := context.Background()

	_, err := repo.Mutate(ctx, "u1", addLine(2))
	require.NoError(t, err)

	ch, cancel, err := repo.Watch(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	first := waitCart(t, ch)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 2, first.Items[0].Qty)
}

func TestWatchAbsentCartStartsEmpty(t *testing.T) {
	repo := memory.NewCartRepository()

	ch, cancel, err := repo.Watch(context.Background(), "u1")
	require.NoError(t, err)
	defer cancel()

	first := waitCart(t, ch)
	assert.Empty(t, first.Items)
}

func TestWatchCoalescesToLatestState(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx := context.Background()

	ch, cancel, err := repo.Watch(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	// burst of mutations before the subscriber reads anything: intermediate
	// states may be dropped, the last one must come through
	for i := 0; i < 5; i++ {
		_, err := repo.Mutate(ctx, "u1", addLine(1))
		require.NoError(t, err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case c := <-ch:
			if len(c.Items) == 1 && c.Items[0].Qty == 5 {
				return
			}
		case <-deadline:
			t.Fatal("final state never delivered")
		}
	}
}

func TestWatchCancelStopsDelivery(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx := context.Background()

	ch, cancel, err := repo.Watch(ctx, "u1")
	require.NoError(t, err)

	waitCart(t, ch)
	cancel()
	cancel() // idempotent

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel must close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}

	// a mutation after cancel must not panic on the closed channel
	_, err = repo.Mutate(ctx, "u1", addLine(1))
	require.NoError(t, err)
}

func TestWatchContextCancellationReleasesListener(t *testing.T) {
	repo := memory.NewCartRepository()
	ctx, stop := context.WithCancel(context.Background())

	ch, _, err := repo.Watch(ctx, "u1")
	require.NoError(t, err)

	waitCart(t, ch)
	stop()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after context cancellation")
	}
}
