package demostore

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/saucecheck/internal/utils"
)

// Product is an item of the storefront catalog.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
}

// Slug is the suffix of the product's cart button ids.
func (p Product) Slug() string {
	return utils.Slugify(p.Name)
}

// PriceText is the price as displayed.
func (p Product) PriceText() string {
	return utils.FormatPrice(p.Price)
}

var catalog = []Product{
	{
		ID:          0,
		Name:        "Sauce Labs Bike Light",
		Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included.",
		Price:       9.99,
	},
	{
		ID:          1,
		Name:        "Sauce Labs Bolt T-Shirt",
		Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt.",
		Price:       15.99,
	},
	{
		ID:          2,
		Name:        "Sauce Labs Onesie",
		Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel.",
		Price:       7.99,
	},
	{
		ID:          3,
		Name:        "Test.allTheThings() T-Shirt (Red)",
		Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton.",
		Price:       15.99,
	},
	{
		ID:          4,
		Name:        "Sauce Labs Backpack",
		Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection.",
		Price:       29.99,
	},
	{
		ID:          5,
		Name:        "Sauce Labs Fleece Jacket",
		Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office.",
		Price:       49.99,
	},
}

// Catalog returns all products.
func Catalog() []Product {
	return slices.Clone(catalog)
}

// ProductByID looks up a product by its id.
func ProductByID(id int) (Product, bool) {
	return lo.Find(catalog, func(p Product) bool { return p.ID == id })
}

// ProductBySlug looks up a product by its button slug.
func ProductBySlug(slug string) (Product, bool) {
	return lo.Find(catalog, func(p Product) bool { return p.Slug() == slug })
}

// SortOrder is the value of an option of the product sort select.
type SortOrder string

const (
	SortNameAsc   SortOrder = "az"
	SortNameDesc  SortOrder = "za"
	SortPriceAsc  SortOrder = "lohi"
	SortPriceDesc SortOrder = "hilo"
)

// SortOrders lists the sort select options in display order.
var SortOrders = []SortOrder{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// Label is the visible text of the option.
func (o SortOrder) Label() string {
	switch o {
	case SortNameDesc:
		return "Name (Z to A)"
	case SortPriceAsc:
		return "Price (low to high)"
	case SortPriceDesc:
		return "Price (high to low)"
	default:
		return "Name (A to Z)"
	}
}

// ParseSortOrder returns the order for a select value, falling back to name ascending.
func ParseSortOrder(value string) SortOrder {
	order := SortOrder(value)
	if slices.Contains(SortOrders, order) {
		return order
	}
	return SortNameAsc
}

// SortProducts returns a sorted copy of products. Ties on price keep name order.
func SortProducts(products []Product, order SortOrder) []Product {
	sorted := slices.Clone(products)
	byName := func(a, b Product) int { return strings.Compare(a.Name, b.Name) }

	switch order {
	case SortNameDesc:
		slices.SortStableFunc(sorted, func(a, b Product) int { return byName(b, a) })
	case SortPriceAsc:
		slices.SortStableFunc(sorted, func(a, b Product) int {
			return cmp.Or(cmp.Compare(a.Price, b.Price), byName(a, b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(sorted, func(a, b Product) int {
			return cmp.Or(cmp.Compare(b.Price, a.Price), byName(a, b))
		})
	default:
		slices.SortStableFunc(sorted, byName)
	}
	return sorted
}
