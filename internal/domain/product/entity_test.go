package product_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko/internal/domain/product"
)

func flatProduct() product.Product {
	now := time.Now()
	return product.Product{
		ID:       "p1",
		Name:     "Jam Tangan Mewah",
		Price:    199000,
		Images:   []string{"/assets/jam.jpg"},
		Category: product.CategoryJam,
		Variations: []product.Variation{
			{Color: "Hitam", Stock: 10},
			{Color: "Coklat", Stock: 5},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sizedProduct() product.Product {
	now := time.Now()
	return product.Product{
		ID:       "p2",
		Name:     "Sepatu Olahraga",
		Price:    149000,
		Images:   []string{"/assets/sepatu.jpg"},
		Category: product.CategorySepatu,
		Variations: []product.Variation{
			{Color: "Putih", Sizes: []product.SizeStock{{Size: 40, Stock: 8}, {Size: 42, Stock: 6}}},
			{Color: "Hitam", Sizes: []product.SizeStock{{Size: 40, Stock: 5}, {Size: 42, Stock: 7}}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name      string
		product   func() product.Product
		color     string
		size      int
		delta     int
		wantStock int
		wantErr   error
	}{
		{
			name:      "flat reserve",
			product:   flatProduct,
			color:     "Hitam",
			delta:     -2,
			wantStock: 8,
		},
		{
			name:    "flat reserve below zero",
			product: flatProduct,
			color:   "Hitam",
			delta:   -11,
			wantErr: product.ErrInsufficientStock,
		},
		{
			name:      "flat release",
			product:   flatProduct,
			color:     "Coklat",
			delta:     3,
			wantStock: 8,
		},
		{
			name:    "unknown color",
			product: flatProduct,
			color:   "Ungu",
			delta:   -1,
			wantErr: product.ErrVariationNotFound,
		},
		{
			name:    "sized without size",
			product: sizedProduct,
			color:   "Putih",
			delta:   -1,
			wantErr: product.ErrSizeRequired,
		},
		{
			name:      "sized reserve exact size",
			product:   sizedProduct,
			color:     "Putih",
			size:      42,
			delta:     -1,
			wantStock: 5,
		},
		{
			name:    "sized unknown size",
			product: sizedProduct,
			color:   "Putih",
			size:    44,
			delta:   -1,
			wantErr: product.ErrVariationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product()
			v, err := p.AdjustStock(tt.color, tt.size, tt.delta)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// the product must be untouched on failure
				orig := tt.product()
				assert.Equal(t, orig.Variations, p.Variations)
				return
			}
			require.NoError(t, err)

			got, err := v.StockFor(tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got)
		})
	}
}

func TestAdjustStockDoesNotTouchSiblingSizes(t *testing.T) {
	p := sizedProduct()

	_, err := p.AdjustStock("Putih", 42, -1)
	require.NoError(t, err)

	v, ok := p.Variation("Putih")
	require.True(t, ok)

	s40, err := v.StockFor(40)
	require.NoError(t, err)
	assert.Equal(t, 8, s40, "size 40 must keep its own stock")

	s42, err := v.StockFor(42)
	require.NoError(t, err)
	assert.Equal(t, 5, s42)
}

func TestValidate(t *testing.T) {
	t.Run("valid flat and sized", func(t *testing.T) {
		p := flatProduct()
		require.NoError(t, p.Validate())
		s := sizedProduct()
		require.NoError(t, s.Validate())
	})

	t.Run("sized variation in flat category", func(t *testing.T) {
		p := flatProduct()
		p.Variations[0].Sizes = []product.SizeStock{{Size: 40, Stock: 1}}
		p.Variations[0].Stock = 0
		require.ErrorIs(t, p.Validate(), product.ErrInvalidProduct)
	})

	t.Run("both stock and sizes", func(t *testing.T) {
		p := sizedProduct()
		p.Variations[0].Stock = 3
		require.ErrorIs(t, p.Validate(), product.ErrInvalidProduct)
	})

	t.Run("duplicate colors", func(t *testing.T) {
		p := flatProduct()
		p.Variations[1].Color = "Hitam"
		require.ErrorIs(t, p.Validate(), product.ErrInvalidProduct)
	})

	t.Run("non-positive price", func(t *testing.T) {
		p := flatProduct()
		p.Price = 0
		require.ErrorIs(t, p.Validate(), product.ErrInvalidPrice)
	})
}

func TestRemoveSizeKeepsLastSize(t *testing.T) {
	p := sizedProduct()
	now := time.Now()

	require.NoError(t, p.RemoveSize("Putih", 40, now))
	// one size left: removing it would break the stock-shape invariant
	require.ErrorIs(t, p.RemoveSize("Putih", 42, now), product.ErrInvalidProduct)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int
		wantErr bool
	}{
		{name: "int", raw: 199000, want: 199000},
		{name: "int64", raw: int64(199000), want: 199000},
		{name: "float64", raw: float64(199000), want: 199000},
		{name: "thousands separated string", raw: "199.000", want: 199000},
		{name: "plain string", raw: "149000", want: 149000},
		{name: "string with currency", raw: "Rp 129.000", want: 129000},
		{name: "empty string", raw: "", wantErr: true},
		{name: "no digits", raw: "abc", wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := product.ParsePrice(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, product.ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
