// Package catalog holds the static seed collection used to populate an
// empty store on first run.
package catalog

import (
	"fmt"

	"shop-core/internal/store"
)

type seedCategory struct {
	Name string
	Icon string
}

type seedProduct struct {
	Title       string
	Description string
	Price       int64
	Category    string
	Stock       int
	BaseCost    int64
	Options     []store.VariantOption
}

var seedCategories = []seedCategory{
	{Name: "Pulsa", Icon: "phone"},
	{Name: "Paket Data", Icon: "wifi"},
	{Name: "Gift Cards", Icon: "gift"},
	{Name: "Game Topup", Icon: "gamepad"},
}

var seedProducts = []seedProduct{
	{
		Title:       "Pulsa Telkomsel 50k",
		Description: "Telkomsel airtime voucher, nominal 50.000",
		Price:       51500,
		Category:    "pulsa",
		Stock:       500,
		BaseCost:    50000,
	},
	{
		Title:       "Pulsa XL 25k",
		Description: "XL airtime voucher, nominal 25.000",
		Price:       26000,
		Category:    "pulsa",
		Stock:       500,
		BaseCost:    25000,
	},
	{
		Title:       "Paket Data Telkomsel 10GB",
		Description: "30-day data package",
		Price:       85000,
		Category:    "paket-data",
		Stock:       200,
		BaseCost:    74000,
		Options: []store.VariantOption{
			{ID: "10gb", Name: "10 GB / 30 days", PriceDelta: 0, BaseCost: 74000},
			{ID: "25gb", Name: "25 GB / 30 days", PriceDelta: 65000, BaseCost: 128000},
		},
	},
	{
		Title:       "Steam Wallet 100k",
		Description: "Steam wallet code, IDR region",
		Price:       105000,
		Category:    "gift-cards",
		Stock:       100,
		BaseCost:    98500,
	},
	{
		Title:       "Mobile Legends 275 Diamonds",
		Description: "Direct top-up by player ID",
		Price:       79000,
		Category:    "game-topup",
		Stock:       300,
		BaseCost:    69500,
	},
}

// Seed populates categories and products. Intended for a store whose
// product table is empty after restore; existing category slugs are
// reused rather than duplicated.
func Seed(s *store.Store) error {
	for _, c := range seedCategories {
		if _, err := s.GetCategoryBySlug(store.Slugify(c.Name)); err == nil {
			continue
		}
		if _, err := s.CreateCategory(store.CreateCategoryInput{Name: c.Name, Icon: c.Icon}); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	for _, p := range seedProducts {
		_, err := s.CreateProduct(store.CreateProductInput{
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price,
			CategorySlug: p.Category,
			Stock:        p.Stock,
			Options:      p.Options,
			Supplier:     &store.SupplierInfo{BaseCost: p.BaseCost},
		})
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Title, err)
		}
	}
	return nil
}
