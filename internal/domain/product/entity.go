// internal/domain/product/entity.go
package product

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalidProduct    = errors.New("product: invalid")
	ErrVariationNotFound = errors.New("product: variation not found")
	ErrSizeRequired      = errors.New("product: size is required for this variation")
	ErrInsufficientStock = errors.New("product: insufficient stock")
	ErrInvalidPrice      = errors.New("product: invalid price")
)

// Categories used by the storefront. "sepatu" is the only category whose
// variations carry per-size stock; every other category uses a flat stock.
const (
	CategoryJam        = "jam"
	CategorySepatu     = "sepatu"
	CategoryTas        = "tas"
	CategoryElektronik = "elektronik"
)

// CategoryHasSizes reports whether variations of this category carry a sizes
// list instead of a flat stock count.
func CategoryHasSizes(category string) bool {
	return strings.TrimSpace(category) == CategorySepatu
}

// SizeStock is stock for one size within a color variation.
type SizeStock struct {
	Size  int `json:"size" firestore:"size"`
	Stock int `json:"stock" firestore:"stock"`
}

// Variation is one color option of a product.
//
// Invariant: a variation has EITHER a flat Stock OR a Sizes list, never both.
// - flat: Sizes == nil, Stock >= 0
// - sized: len(Sizes) >= 1, Stock == 0
type Variation struct {
	Color string      `json:"color" firestore:"color"`
	Stock int         `json:"stock" firestore:"stock"`
	Sizes []SizeStock `json:"sizes,omitempty" firestore:"sizes,omitempty"`
}

// Sized reports whether this variation carries per-size stock.
func (v Variation) Sized() bool { return v.Sizes != nil }

// StockFor returns the available stock for the given size selection.
// size == 0 means "no size selected".
func (v Variation) StockFor(size int) (int, error) {
	if !v.Sized() {
		return v.Stock, nil
	}
	if size == 0 {
		return 0, ErrSizeRequired
	}
	for _, s := range v.Sizes {
		if s.Size == size {
			return s.Stock, nil
		}
	}
	return 0, ErrVariationNotFound
}

// Product is one document in the "products" collection.
// Price is always held as whole rupiah (int). Persisted docs written by older
// clients may carry the price as a thousands-separated string; ParsePrice
// normalizes that exactly once at the store boundary.
type Product struct {
	ID               string      `json:"id" firestore:"id"`
	Name             string      `json:"name" firestore:"name"`
	ShortDescription string      `json:"shortDescription" firestore:"shortDescription"`
	FullDescription  string      `json:"fullDescription" firestore:"fullDescription"`
	Price            int         `json:"price" firestore:"price"`
	Images           []string    `json:"images" firestore:"images"`
	Category         string      `json:"category" firestore:"category"`
	Variations       []Variation `json:"variations" firestore:"variations"`
	Rating           float64     `json:"rating" firestore:"rating"`
	Reviews          int         `json:"reviews" firestore:"reviews"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Variation returns the variation with the given color.
func (p *Product) Variation(color string) (Variation, bool) {
	color = strings.TrimSpace(color)
	for _, v := range p.Variations {
		if v.Color == color {
			return v, true
		}
	}
	return Variation{}, false
}

// AdjustStock applies delta (negative = reserve, positive = release) to the
// exact (color, size) variation key and returns the updated variation.
// The resulting stock must not go below zero; the adjustment fails with
// ErrInsufficientStock instead, leaving the product unchanged.
func (p *Product) AdjustStock(color string, size int, delta int) (Variation, error) {
	if p == nil {
		return Variation{}, ErrInvalidProduct
	}

	color = strings.TrimSpace(color)
	for i := range p.Variations {
		if p.Variations[i].Color != color {
			continue
		}

		v := &p.Variations[i]
		if !v.Sized() {
			next := v.Stock + delta
			if next < 0 {
				return Variation{}, ErrInsufficientStock
			}
			v.Stock = next
			return *v, nil
		}

		if size == 0 {
			return Variation{}, ErrSizeRequired
		}
		for j := range v.Sizes {
			if v.Sizes[j].Size != size {
				continue
			}
			next := v.Sizes[j].Stock + delta
			if next < 0 {
				return Variation{}, ErrInsufficientStock
			}
			v.Sizes[j].Stock = next
			return *v, nil
		}
		return Variation{}, ErrVariationNotFound
	}

	return Variation{}, ErrVariationNotFound
}

// AddVariation appends a new color variation.
// The color must be unused, and the variation shape must match the category.
func (p *Product) AddVariation(v Variation, now time.Time) error {
	if p == nil {
		return ErrInvalidProduct
	}
	v.Color = strings.TrimSpace(v.Color)
	if v.Color == "" {
		return ErrInvalidProduct
	}
	if _, ok := p.Variation(v.Color); ok {
		return ErrInvalidProduct
	}
	p.Variations = append(p.Variations, v)
	p.UpdatedAt = now
	return p.Validate()
}

// RemoveVariation drops the variation with the given color.
func (p *Product) RemoveVariation(color string, now time.Time) error {
	if p == nil {
		return ErrInvalidProduct
	}
	color = strings.TrimSpace(color)
	for i := range p.Variations {
		if p.Variations[i].Color == color {
			p.Variations = append(p.Variations[:i], p.Variations[i+1:]...)
			p.UpdatedAt = now
			return p.Validate()
		}
	}
	return ErrVariationNotFound
}

// SetSizeStock adds or replaces one size entry within a sized variation.
func (p *Product) SetSizeStock(color string, entry SizeStock, now time.Time) error {
	if p == nil {
		return ErrInvalidProduct
	}
	color = strings.TrimSpace(color)
	for i := range p.Variations {
		if p.Variations[i].Color != color {
			continue
		}
		v := &p.Variations[i]
		if !v.Sized() {
			return ErrInvalidProduct
		}
		for j := range v.Sizes {
			if v.Sizes[j].Size == entry.Size {
				v.Sizes[j] = entry
				p.UpdatedAt = now
				return p.Validate()
			}
		}
		v.Sizes = append(v.Sizes, entry)
		p.UpdatedAt = now
		return p.Validate()
	}
	return ErrVariationNotFound
}

// RemoveSize drops one size entry. The last size cannot be removed; a sized
// variation with no sizes would violate the stock-shape invariant.
func (p *Product) RemoveSize(color string, size int, now time.Time) error {
	if p == nil {
		return ErrInvalidProduct
	}
	color = strings.TrimSpace(color)
	for i := range p.Variations {
		if p.Variations[i].Color != color {
			continue
		}
		v := &p.Variations[i]
		if !v.Sized() {
			return ErrInvalidProduct
		}
		for j := range v.Sizes {
			if v.Sizes[j].Size == size {
				if len(v.Sizes) == 1 {
					return ErrInvalidProduct
				}
				v.Sizes = append(v.Sizes[:j], v.Sizes[j+1:]...)
				p.UpdatedAt = now
				return p.Validate()
			}
		}
		return ErrVariationNotFound
	}
	return ErrVariationNotFound
}

// Validate enforces the catalog invariants. Reads of persisted docs that fail
// here are rejected (fail closed), never patched up by guessing.
func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrInvalidProduct
	}
	if len(p.Images) == 0 {
		return ErrInvalidProduct
	}
	if len(p.Variations) == 0 {
		return ErrInvalidProduct
	}

	sized := CategoryHasSizes(p.Category)
	seenColor := map[string]struct{}{}
	for _, v := range p.Variations {
		color := strings.TrimSpace(v.Color)
		if color == "" {
			return ErrInvalidProduct
		}
		if _, dup := seenColor[color]; dup {
			return ErrInvalidProduct
		}
		seenColor[color] = struct{}{}

		// flat stock XOR sizes, and the shape must match the category
		if v.Sized() {
			if !sized || v.Stock != 0 || len(v.Sizes) == 0 {
				return ErrInvalidProduct
			}
			seenSize := map[int]struct{}{}
			for _, s := range v.Sizes {
				if s.Size <= 0 || s.Stock < 0 {
					return ErrInvalidProduct
				}
				if _, dup := seenSize[s.Size]; dup {
					return ErrInvalidProduct
				}
				seenSize[s.Size] = struct{}{}
			}
		} else {
			if sized || v.Stock < 0 {
				return ErrInvalidProduct
			}
		}
	}

	return nil
}

// Clone returns a deep copy (repositories hand out copies, never shared slices).
func (p Product) Clone() Product {
	out := p
	out.Images = append([]string(nil), p.Images...)
	out.Variations = make([]Variation, len(p.Variations))
	for i, v := range p.Variations {
		cv := v
		if v.Sizes != nil {
			cv.Sizes = append([]SizeStock(nil), v.Sizes...)
		}
		out.Variations[i] = cv
	}
	return out
}

// ParsePrice normalizes a persisted price value into whole rupiah.
//
// Older clients stored prices inconsistently: a plain number (199000) or a
// thousands-separated string ("199.000"). This is the single place where the
// string form is accepted; everything downstream works with int only.
func ParsePrice(raw any) (int, error) {
	switch t := raw.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, ErrInvalidPrice
		}
		var b strings.Builder
		for _, r := range s {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			return 0, ErrInvalidPrice
		}
		n, err := strconv.Atoi(b.String())
		if err != nil {
			return 0, ErrInvalidPrice
		}
		return n, nil
	default:
		return 0, ErrInvalidPrice
	}
}
