// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCart     = errors.New("cart: invalid")
	ErrInvalidQuantity = errors.New("cart: quantity must be >= 1")
	ErrLineNotFound    = errors.New("cart: line item not found")
)

// DefaultCartTTL is the inactivity window after which the cart becomes
// eligible for auto deletion (Firestore TTL configured on expiresAt).
const DefaultCartTTL = 30 * 24 * time.Hour

// LineItem is one entry in a cart.
//
// Uniqueness within a cart is the composite (ProductID, Color, Size); keying
// on product id alone would collide two different selections of the same
// product. Size 0 means the variation has no sizes.
//
// Price, Name and Image are a snapshot taken at add time so the cart stays
// displayable even if the catalog changes afterwards.
//
// ReservedQty is how many units of this line have been reserved against
// catalog stock. Adds reserve immediately; quantity edits are optimistic and
// reconciled at checkout.
type LineItem struct {
	ProductID string `json:"productId" firestore:"productId"`
	Color     string `json:"color" firestore:"color"`
	Size      int    `json:"size" firestore:"size"`
	Qty       int    `json:"qty" firestore:"qty"`

	ReservedQty int `json:"reservedQty" firestore:"reservedQty"`

	Price int    `json:"price" firestore:"price"`
	Name  string `json:"name" firestore:"name"`
	Image string `json:"image" firestore:"image"`
}

// Key is the deterministic composite line key: productId__color__size.
func (it LineItem) Key() string {
	return LineKey(it.ProductID, it.Color, it.Size)
}

// LineKey builds the composite key used to address one line item.
func LineKey(productID, color string, size int) string {
	return fmt.Sprintf("%s__%s__%d", strings.TrimSpace(productID), strings.TrimSpace(color), size)
}

// Cart is one document in the "carts" collection.
// - docId = user id (source of truth; the field is re-filled from docId on read)
// - created implicitly on first add, cleared (not deleted) when emptied
type Cart struct {
	ID    string     `json:"id" firestore:"id"`
	Items []LineItem `json:"items" firestore:"items"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`

	// ExpiresAt is refreshed on each mutation (Firestore TTL field).
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewCart creates an empty cart for userID.
func NewCart(userID string, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(userID),
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add merges item into the cart: an existing line with the same composite key
// gets its quantities summed, otherwise the line is appended (order preserved).
func (c *Cart) Add(item LineItem, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	item.ProductID = strings.TrimSpace(item.ProductID)
	item.Color = strings.TrimSpace(item.Color)
	if item.ProductID == "" || item.Color == "" {
		return ErrInvalidCart
	}
	if item.Qty < 1 {
		return ErrInvalidQuantity
	}

	if idx := c.findIndex(item.Key()); idx >= 0 {
		c.Items[idx].Qty += item.Qty
		c.Items[idx].ReservedQty += item.ReservedQty
	} else {
		c.Items = append(c.Items, item)
	}

	c.touch(now)
	return c.Validate()
}

// SetQty replaces the quantity of the line addressed by key.
// The reservation is deliberately left as is: quantity edits inside the cart
// are optimistic and get reconciled against stock at checkout only.
func (c *Cart) SetQty(key string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	idx := c.findIndex(key)
	if idx < 0 {
		return ErrLineNotFound
	}
	c.Items[idx].Qty = qty

	c.touch(now)
	return c.Validate()
}

// Remove drops the line addressed by key and returns it.
// Removing an absent line is a no-op (ok == false), not an error.
func (c *Cart) Remove(key string, now time.Time) (LineItem, bool) {
	if c == nil {
		return LineItem{}, false
	}

	idx := c.findIndex(key)
	if idx < 0 {
		return LineItem{}, false
	}

	removed := c.Items[idx]
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch(now)
	return removed, true
}

// ConsumeAll empties the cart for order creation and returns the item snapshot.
func (c *Cart) ConsumeAll(now time.Time) []LineItem {
	if c == nil {
		return nil
	}
	snap := append([]LineItem(nil), c.Items...)
	c.Items = []LineItem{}
	c.touch(now)
	return snap
}

// Count is the total unit count across all lines.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// Total is the cart total in rupiah, from the snapshot prices.
func (c *Cart) Total() int {
	if c == nil {
		return 0
	}
	sum := 0
	for _, it := range c.Items {
		sum += it.Price * it.Qty
	}
	return sum
}

func (c *Cart) findIndex(key string) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

// Validate enforces the cart invariants: non-empty id, ordered timestamps,
// well-formed lines, no duplicate composite keys. Persisted docs that fail
// here are rejected at the store boundary (fail closed), never patched up.
func (c *Cart) Validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) || c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	seen := map[string]struct{}{}
	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" || strings.TrimSpace(it.Color) == "" {
			return ErrInvalidCart
		}
		if it.Qty < 1 || it.ReservedQty < 0 {
			return ErrInvalidCart
		}
		k := it.Key()
		if _, dup := seen[k]; dup {
			return ErrInvalidCart
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = append([]LineItem(nil), c.Items...)
	return &out
}
