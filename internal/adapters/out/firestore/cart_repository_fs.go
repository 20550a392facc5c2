// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "toko/internal/domain/cart"
	productdom "toko/internal/domain/product"
)

// CartRepositoryFS implements cart.Repository and cart.Watcher with Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId ✅ (docId is the source of truth)
// - fields: items(array), createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt".
//
// Concurrency:
// - Mutate wraps the read-modify-write in RunTransaction, so two sessions of
//   the same user serialize on the doc instead of overwriting each other.
type CartRepositoryFS struct {
	Client *gfs.Client
}

func NewCartRepositoryFS(client *gfs.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

// Compile-time checks
var (
	_ cartdom.Repository = (*CartRepositoryFS)(nil)
	_ cartdom.Watcher    = (*CartRepositoryFS)(nil)
)

func (r *CartRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByUserID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, mapErr(err)
	}

	// ✅ docId (= uid) が source of truth
	return cartFromData(uid, snap.Data())
}

// Mutate applies fn to the current cart inside a transaction. The absent doc
// case hands fn a fresh empty cart.
func (r *CartRepositoryFS) Mutate(ctx context.Context, userID string, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	ref := r.col().Doc(uid)
	var out *cartdom.Cart
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		var work *cartdom.Cart

		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			work, err = cartFromData(uid, snap.Data())
			if err != nil {
				return err
			}
		case status.Code(err) == codes.NotFound:
			work, err = cartdom.NewCart(uid, time.Now().UTC())
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := fn(work); err != nil {
			return err
		}

		out = work
		return tx.Set(ref, cartToDoc(work))
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// Watch streams committed cart states via a Firestore snapshot listener.
// The first emission is the current state; an absent doc is delivered as an
// empty cart.
func (r *CartRepositoryFS) Watch(ctx context.Context, userID string) (<-chan cartdom.Cart, func(), error) {
	if r == nil || r.Client == nil {
		return nil, nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, nil, errors.New("cart_repository_fs: userID is empty")
	}

	watchCtx, stopIter := context.WithCancel(ctx)
	iter := r.col().Doc(uid).Snapshots(watchCtx)

	out := make(chan cartdom.Cart, 1)
	go func() {
		defer close(out)
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("[cart_repository_fs] watch for %s ended: %v", uid, err)
				}
				return
			}

			var c *cartdom.Cart
			if snap == nil || !snap.Exists() {
				c, err = cartdom.NewCart(uid, time.Now().UTC())
				if err != nil {
					continue
				}
			} else {
				// fail closed: an invalid doc ends the stream instead of
				// delivering a guessed state
				c, err = cartFromData(uid, snap.Data())
				if err != nil {
					log.Printf("[cart_repository_fs] watch for %s stopped on invalid doc: %v", uid, err)
					return
				}
			}

			select {
			case out <- *c:
			case <-watchCtx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stopIter()
			iter.Stop()
		})
	}
	return out, cancel, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Items     []cartLineDoc `firestore:"items"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

type cartLineDoc struct {
	ProductID   string `firestore:"productId"`
	Color       string `firestore:"color"`
	Size        int    `firestore:"size"`
	Qty         int    `firestore:"qty"`
	ReservedQty int    `firestore:"reservedQty"`
	Price       int    `firestore:"price"`
	Name        string `firestore:"name"`
	Image       string `firestore:"image"`
}

func cartToDoc(c *cartdom.Cart) cartDoc {
	items := make([]cartLineDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartLineDoc{
			ProductID:   it.ProductID,
			Color:       it.Color,
			Size:        it.Size,
			Qty:         it.Qty,
			ReservedQty: it.ReservedQty,
			Price:       it.Price,
			Name:        it.Name,
			Image:       it.Image,
		})
	}
	return cartDoc{
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

// cartFromData rebuilds the cart from raw doc data.
//
// ✅ IMPORTANT:
// 旧クライアントは items を {productId, quantity} だけで保存していた。
// DataTo だと schema 変更で 500 になり得るため snap.Data() を自前パースする。
// 解釈できない行・インバリアント違反は ErrInvalidCart で弾く（fail closed）。
// 黙って行を捨てると checkout が「縮んだカート」を決済してしまう。
// 欠落したタイムスタンプだけは旧 doc 互換として補完する。
func cartFromData(uid string, raw map[string]any) (*cartdom.Cart, error) {
	now := time.Now().UTC()
	if raw == nil {
		return cartdom.NewCart(uid, now)
	}

	c := &cartdom.Cart{ID: uid, Items: []cartdom.LineItem{}}
	if t, ok := asTime(raw["createdAt"]); ok {
		c.CreatedAt = t
	} else {
		c.CreatedAt = now
	}
	if t, ok := asTime(raw["updatedAt"]); ok && !t.Before(c.CreatedAt) {
		c.UpdatedAt = t
	} else {
		c.UpdatedAt = c.CreatedAt
	}
	if t, ok := asTime(raw["expiresAt"]); ok && !t.Before(c.UpdatedAt) {
		c.ExpiresAt = t
	} else {
		c.ExpiresAt = c.UpdatedAt.Add(cartdom.DefaultCartTTL)
	}

	if rawItems, present := raw["items"]; present {
		arr, ok := rawItems.([]any)
		if !ok {
			return nil, fmt.Errorf("cart %s: items has unexpected shape: %w", uid, cartdom.ErrInvalidCart)
		}
		for i, e := range arr {
			mv, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("cart %s item %d: not a map: %w", uid, i, cartdom.ErrInvalidCart)
			}

			pid := strings.TrimSpace(asString(mv["productId"]))
			col := strings.TrimSpace(asString(mv["color"]))
			if pid == "" || col == "" {
				return nil, fmt.Errorf("cart %s item %d: missing productId/color: %w", uid, i, cartdom.ErrInvalidCart)
			}
			qty := asInt(mv["qty"])
			if qty == 0 {
				// legacy field name
				qty = asInt(mv["quantity"])
			}
			if qty < 1 {
				return nil, fmt.Errorf("cart %s item %d: bad quantity: %w", uid, i, cartdom.ErrInvalidCart)
			}

			price, err := productdom.ParsePrice(mv["price"])
			if err != nil {
				return nil, fmt.Errorf("cart %s item %d: %w", uid, i, err)
			}

			c.Items = append(c.Items, cartdom.LineItem{
				ProductID:   pid,
				Color:       col,
				Size:        asInt(mv["size"]),
				Qty:         qty,
				ReservedQty: asInt(mv["reservedQty"]),
				Price:       price,
				Name:        asString(mv["name"]),
				Image:       asString(mv["image"]),
			})
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cart %s: %w", uid, err)
	}
	return c, nil
}
