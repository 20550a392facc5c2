// internal/adapters/out/memory/seed.go
package memory

import (
	"time"

	productdom "toko/internal/domain/product"
)

// DemoCatalog is the catalog local mode boots with, matching what the
// storefront shipped with before products moved to Firestore.
func DemoCatalog() []productdom.Product {
	now := time.Now()
	mk := func(id, name, short, full string, price int, rating float64, reviews int, image, category string, vars []productdom.Variation) productdom.Product {
		return productdom.Product{
			ID:               id,
			Name:             name,
			ShortDescription: short,
			FullDescription:  full,
			Price:            price,
			Images:           []string{image},
			Category:         category,
			Variations:       vars,
			Rating:           rating,
			Reviews:          reviews,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	return []productdom.Product{
		mk("1", "Jam Tangan Mewah",
			"Desain elegan dengan bahan premium",
			"Jam tangan mewah dengan desain elegan, material berkualitas tinggi, dan pengerjaan terbaik.",
			199000, 4.8, 200, "/assets/jam_tangan.jpg", productdom.CategoryJam,
			[]productdom.Variation{
				{Color: "Hitam", Stock: 10},
				{Color: "Coklat", Stock: 5},
			}),
		mk("2", "Sepatu Olahraga",
			"Performa tinggi untuk olahraga & kasual",
			"Sepatu olahraga yang ringan, nyaman, dan bergaya. Cocok untuk berbagai aktivitas.",
			149000, 4.6, 150, "/assets/sepatu.jpg", productdom.CategorySepatu,
			[]productdom.Variation{
				{Color: "Putih", Sizes: []productdom.SizeStock{{Size: 40, Stock: 8}, {Size: 42, Stock: 6}}},
				{Color: "Hitam", Sizes: []productdom.SizeStock{{Size: 40, Stock: 5}, {Size: 42, Stock: 7}}},
			}),
		mk("3", "Tas Tangan Klasik",
			"Gaya klasik dengan ruang luas",
			"Tas tangan elegan berbahan kulit berkualitas tinggi, cocok untuk penggunaan sehari-hari.",
			129000, 4.7, 180, "/assets/tas.jpg", productdom.CategoryTas,
			[]productdom.Variation{
				{Color: "Hitam", Stock: 12},
				{Color: "Coklat", Stock: 9},
			}),
		mk("4", "Jam Pintar",
			"Pantau kesehatan & notifikasi Anda",
			"Tetap terhubung dengan pemantauan kesehatan real-time dan notifikasi pintar.",
			179000, 4.5, 120, "/assets/smart_watch.jpg", productdom.CategoryElektronik,
			[]productdom.Variation{
				{Color: "Silver", Stock: 10},
				{Color: "Hitam", Stock: 7},
			}),
		mk("5", "Sneakers Lari",
			"Desain ringan & tahan lama",
			"Sepatu lari berkinerja tinggi yang memberikan kenyamanan dan daya tahan maksimal.",
			139000, 4.4, 90, "/assets/running_sneaker.jpg", productdom.CategorySepatu,
			[]productdom.Variation{
				{Color: "Putih", Sizes: []productdom.SizeStock{{Size: 40, Stock: 6}, {Size: 42, Stock: 4}}},
				{Color: "Hitam", Sizes: []productdom.SizeStock{{Size: 40, Stock: 5}, {Size: 42, Stock: 7}}},
			}),
		mk("6", "Ransel Kulit",
			"Sempurna untuk bepergian & bekerja",
			"Ransel kulit bergaya dan tahan lama dengan banyak kompartemen penyimpanan.",
			159000, 4.9, 250, "/assets/leather_backpack.jpg", productdom.CategoryTas,
			[]productdom.Variation{
				{Color: "Coklat", Stock: 15},
				{Color: "Hitam", Stock: 10},
			}),
	}
}
