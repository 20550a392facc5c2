// internal/adapters/out/memory/cart_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	cartdom "toko/internal/domain/cart"
)

// CartRepository is the in-memory cart store. Mutations for one user serialize
// on the store lock; watchers get a coalesced stream of committed states.
type CartRepository struct {
	mu      sync.Mutex
	carts   map[string]*cartdom.Cart
	subs    map[string]map[int]chan cartdom.Cart
	nextSub int
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: map[string]*cartdom.Cart{},
		subs:  map[string]map[int]chan cartdom.Cart{},
	}
}

func (r *CartRepository) GetByUserID(_ context.Context, userID string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[strings.TrimSpace(userID)]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *CartRepository) Mutate(_ context.Context, userID string, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, cartdom.ErrInvalidCart
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var work *cartdom.Cart
	if cur, ok := r.carts[uid]; ok {
		work = cur.Clone()
	} else {
		var err error
		work, err = cartdom.NewCart(uid, time.Now())
		if err != nil {
			return nil, err
		}
	}

	if err := fn(work); err != nil {
		return nil, err
	}

	r.carts[uid] = work
	r.notifyLocked(uid, *work.Clone())
	return work.Clone(), nil
}

// Watch registers a listener. The buffered channel holds the latest state;
// intermediate states may be coalesced, the final state is always delivered.
func (r *CartRepository) Watch(ctx context.Context, userID string) (<-chan cartdom.Cart, func(), error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, nil, cartdom.ErrInvalidCart
	}

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	ch := make(chan cartdom.Cart, 1)
	if r.subs[uid] == nil {
		r.subs[uid] = map[int]chan cartdom.Cart{}
	}
	r.subs[uid][id] = ch

	// current state first; absent doc shows up as an empty cart
	if cur, ok := r.carts[uid]; ok {
		ch <- *cur.Clone()
	} else if empty, err := cartdom.NewCart(uid, time.Now()); err == nil {
		ch <- *empty
	}
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if subs, ok := r.subs[uid]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(r.subs, uid)
				}
			}
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel, nil
}

// notifyLocked pushes the committed state to every subscriber of uid,
// replacing an undelivered older state (latest wins). Caller holds r.mu.
func (r *CartRepository) notifyLocked(uid string, state cartdom.Cart) {
	for _, ch := range r.subs[uid] {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
