// internal/application/query/cart_sync.go
package query

import (
	"context"
	"errors"
	"strings"
	"sync"

	cartdom "toko/internal/domain/cart"
)

var ErrSyncInvalidArgument = errors.New("cart_sync: invalid argument")

// CartLineView is one cart line as the storefront renders it.
type CartLineView struct {
	Key      string `json:"key"`
	Product  string `json:"productId"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Color    string `json:"color"`
	Size     int    `json:"size,omitempty"`
	Qty      int    `json:"qty"`
	Price    int    `json:"price"`
	Subtotal int    `json:"subtotal"`
}

// CartView is the derived projection the header badge and cart page consume:
// the line list plus count (sum of quantities) and total (sum of price*qty).
type CartView struct {
	Items []CartLineView `json:"items"`
	Count int            `json:"count"`
	Total int            `json:"total"`
}

// Project derives the view from a cart state. An absent cart projects to the
// empty view, never to an error.
func Project(c *cartdom.Cart) CartView {
	view := CartView{Items: []CartLineView{}}
	if c == nil {
		return view
	}
	for _, it := range c.Items {
		view.Items = append(view.Items, CartLineView{
			Key:      it.Key(),
			Product:  it.ProductID,
			Name:     it.Name,
			Image:    it.Image,
			Color:    it.Color,
			Size:     it.Size,
			Qty:      it.Qty,
			Price:    it.Price,
			Subtotal: it.Price * it.Qty,
		})
	}
	view.Count = c.Count()
	view.Total = c.Total()
	return view
}

// Synchronizer keeps connected clients' cart views in step with the store.
// It wraps the repository watcher and re-projects on every committed change,
// so a mutation made in one session shows up in every other session of the
// same user.
type Synchronizer struct {
	watcher cartdom.Watcher
}

func NewSynchronizer(watcher cartdom.Watcher) *Synchronizer {
	return &Synchronizer{watcher: watcher}
}

// Subscribe starts a view stream for userID. The current view is delivered
// first, then one view per committed change. cancel is idempotent and releases
// the underlying listener; the channel closes after cancel or ctx done.
func (s *Synchronizer) Subscribe(ctx context.Context, userID string) (<-chan CartView, func(), error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, nil, ErrSyncInvalidArgument
	}

	src, stop, err := s.watcher.Watch(ctx, uid)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan CartView, 1)
	go func() {
		defer close(out)
		for c := range src {
			c := c
			select {
			case out <- Project(&c):
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() { once.Do(stop) }
	return out, cancel, nil
}
