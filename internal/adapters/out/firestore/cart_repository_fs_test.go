package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "toko/internal/domain/cart"
	productdom "toko/internal/domain/product"
)

func validCartData(t0 time.Time) map[string]any {
	return map[string]any{
		"items": []any{
			map[string]any{
				"productId":   "p1",
				"color":       "Hitam",
				"size":        int64(0),
				"qty":         int64(2),
				"reservedQty": int64(2),
				"price":       int64(199000),
				"name":        "Jam Tangan Mewah",
				"image":       "/assets/jam.jpg",
			},
		},
		"createdAt": t0,
		"updatedAt": t0,
		"expiresAt": t0.Add(cartdom.DefaultCartTTL),
	}
}

func TestCartFromData(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("modern doc", func(t *testing.T) {
		c, err := cartFromData("u1", validCartData(t0))
		require.NoError(t, err)
		assert.Equal(t, "u1", c.ID)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.Items[0].Qty)
		assert.Equal(t, 2, c.Items[0].ReservedQty)
		assert.Equal(t, 199000, c.Items[0].Price)
		assert.Equal(t, t0, c.CreatedAt)
	})

	t.Run("legacy quantity field and string price", func(t *testing.T) {
		raw := validCartData(t0)
		line := raw["items"].([]any)[0].(map[string]any)
		delete(line, "qty")
		line["quantity"] = int64(3)
		line["price"] = "199.000"

		c, err := cartFromData("u1", raw)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 3, c.Items[0].Qty)
		assert.Equal(t, 199000, c.Items[0].Price)
	})

	t.Run("missing timestamps are defaulted", func(t *testing.T) {
		raw := validCartData(t0)
		delete(raw, "createdAt")
		delete(raw, "updatedAt")
		delete(raw, "expiresAt")

		c, err := cartFromData("u1", raw)
		require.NoError(t, err)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Equal(t, c.UpdatedAt.Add(cartdom.DefaultCartTTL), c.ExpiresAt)
	})

	t.Run("nil data is an empty cart", func(t *testing.T) {
		c, err := cartFromData("u1", nil)
		require.NoError(t, err)
		assert.Empty(t, c.Items)
	})

	t.Run("line without color is rejected", func(t *testing.T) {
		raw := validCartData(t0)
		raw["items"].([]any)[0].(map[string]any)["color"] = "  "

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, cartdom.ErrInvalidCart)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		raw := validCartData(t0)
		raw["items"].([]any)[0].(map[string]any)["qty"] = int64(-1)

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, cartdom.ErrInvalidCart)
	})

	t.Run("unparseable price is rejected", func(t *testing.T) {
		raw := validCartData(t0)
		raw["items"].([]any)[0].(map[string]any)["price"] = "gratis"

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, productdom.ErrInvalidPrice)
	})

	t.Run("duplicate composite keys are rejected", func(t *testing.T) {
		raw := validCartData(t0)
		items := raw["items"].([]any)
		dup := map[string]any{
			"productId": "p1", "color": "Hitam", "size": int64(0),
			"qty": int64(1), "reservedQty": int64(1), "price": int64(199000),
		}
		raw["items"] = append(items, dup)

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, cartdom.ErrInvalidCart)
	})

	t.Run("negative reservation is rejected", func(t *testing.T) {
		raw := validCartData(t0)
		raw["items"].([]any)[0].(map[string]any)["reservedQty"] = int64(-2)

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, cartdom.ErrInvalidCart)
	})

	t.Run("items with unexpected shape are rejected", func(t *testing.T) {
		raw := validCartData(t0)
		raw["items"] = "oops"

		_, err := cartFromData("u1", raw)
		require.ErrorIs(t, err, cartdom.ErrInvalidCart)
	})
}
