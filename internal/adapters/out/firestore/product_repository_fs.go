// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "toko/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository with Firestore.
//
// Collection design:
// - collection: products
// - docId: store-assigned id (docId is the source of truth for Product.ID)
//
// AdjustStock runs inside RunTransaction so concurrent adjustments against the
// same product serialize on the doc.
type ProductRepositoryFS struct {
	Client *gfs.Client
}

func NewProductRepositoryFS(client *gfs.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

// Compile-time check
var _ productdom.Repository = (*ProductRepositoryFS)(nil)

func (r *ProductRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, mapErr(err)
	}
	return productFromSnapshot(snap)
}

func (r *ProductRepositoryFS) ListAll(ctx context.Context) ([]productdom.Product, error) {
	if r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	var out []productdom.Product
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		p, err := productFromSnapshot(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	ref := r.col().NewDoc()
	p.ID = ref.ID
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	if _, err := ref.Set(ctx, productToDoc(p)); err != nil {
		return productdom.Product{}, mapErr(err)
	}
	return p, nil
}

func (r *ProductRepositoryFS) Update(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	// existence check first: Set would silently create
	if _, err := r.col().Doc(id).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, mapErr(err)
	}

	if _, err := r.col().Doc(id).Set(ctx, productToDoc(p)); err != nil {
		return productdom.Product{}, mapErr(err)
	}
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return mapErr(err)
}

func (r *ProductRepositoryFS) AdjustStock(ctx context.Context, productID, color string, size, delta int) (productdom.Variation, error) {
	if r.Client == nil {
		return productdom.Variation{}, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return productdom.Variation{}, productdom.ErrNotFound
	}

	ref := r.col().Doc(pid)
	var out productdom.Variation
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return productdom.ErrNotFound
			}
			return err
		}

		p, err := productFromSnapshot(snap)
		if err != nil {
			return err
		}

		v, err := p.AdjustStock(color, size, delta)
		if err != nil {
			return err
		}
		out = v

		p.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, productToDoc(p))
	})
	if err != nil {
		return productdom.Variation{}, mapErr(err)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type productDoc struct {
	Name             string         `firestore:"name"`
	ShortDescription string         `firestore:"shortDescription"`
	FullDescription  string         `firestore:"fullDescription"`
	Price            int            `firestore:"price"`
	Images           []string       `firestore:"images"`
	Category         string         `firestore:"category"`
	Variations       []variationDoc `firestore:"variations"`
	Rating           float64        `firestore:"rating"`
	Reviews          int            `firestore:"reviews"`
	CreatedAt        time.Time      `firestore:"createdAt"`
	UpdatedAt        time.Time      `firestore:"updatedAt"`
}

type variationDoc struct {
	Color string         `firestore:"color"`
	Stock int            `firestore:"stock"`
	Sizes []sizeStockDoc `firestore:"sizes,omitempty"`
}

type sizeStockDoc struct {
	Size  int `firestore:"size"`
	Stock int `firestore:"stock"`
}

func productToDoc(p productdom.Product) productDoc {
	vars := make([]variationDoc, 0, len(p.Variations))
	for _, v := range p.Variations {
		vd := variationDoc{Color: v.Color, Stock: v.Stock}
		for _, s := range v.Sizes {
			vd.Sizes = append(vd.Sizes, sizeStockDoc{Size: s.Size, Stock: s.Stock})
		}
		vars = append(vars, vd)
	}
	return productDoc{
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		FullDescription:  p.FullDescription,
		Price:            p.Price,
		Images:           p.Images,
		Category:         p.Category,
		Variations:       vars,
		Rating:           p.Rating,
		Reviews:          p.Reviews,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// productFromSnapshot parses the doc with backward compatibility.
//
// 過去のクライアントは price を数値または "199.000" のような文字列で保存していた。
// DataTo だと型不一致で落ちるため snap.Data() を取り自前でパースする。
func productFromSnapshot(snap *gfs.DocumentSnapshot) (productdom.Product, error) {
	if snap == nil {
		return productdom.Product{}, productdom.ErrNotFound
	}
	raw := snap.Data()
	if raw == nil {
		return productdom.Product{}, productdom.ErrNotFound
	}

	price, err := productdom.ParsePrice(raw["price"])
	if err != nil {
		return productdom.Product{}, err
	}

	p := productdom.Product{
		ID:               snap.Ref.ID, // docId is the source of truth
		Name:             strings.TrimSpace(asString(raw["name"])),
		ShortDescription: asString(raw["shortDescription"]),
		FullDescription:  asString(raw["fullDescription"]),
		Price:            price,
		Images:           asStringSlice(raw["images"]),
		Category:         strings.TrimSpace(asString(raw["category"])),
		Rating:           asFloat(raw["rating"]),
		Reviews:          asInt(raw["reviews"]),
	}
	if t, ok := asTime(raw["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		p.UpdatedAt = t
	}

	if arr, ok := raw["variations"].([]any); ok {
		for _, e := range arr {
			mv, ok := e.(map[string]any)
			if !ok {
				continue
			}
			v := productdom.Variation{
				Color: strings.TrimSpace(asString(mv["color"])),
				Stock: asInt(mv["stock"]),
			}
			if sizesAny, ok := mv["sizes"].([]any); ok {
				for _, se := range sizesAny {
					ms, ok := se.(map[string]any)
					if !ok {
						continue
					}
					v.Sizes = append(v.Sizes, productdom.SizeStock{
						Size:  asInt(ms["size"]),
						Stock: asInt(ms["stock"]),
					})
				}
			}
			p.Variations = append(p.Variations, v)
		}
	}

	// fail closed: a doc violating catalog invariants is an error, not a guess
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}
