// Package catalog defines the externally-consumed product/collection view of
// the listings table, and the mapping from stored rows to that view.
package catalog

// Product is the catalog shape consumed by the storefront. Each listing has
// exactly one implicit variant, so the price range collapses to a single
// amount.
type Product struct {
	ID               string     `json:"id"`
	Handle           string     `json:"handle"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AvailableForSale bool       `json:"availableForSale"`
	PriceRange       PriceRange `json:"priceRange"`
	Variants         []Variant  `json:"variants"`
	Images           []Image    `json:"images"`
	FeaturedImage    *Image     `json:"featuredImage,omitempty"`
	Tags             []string   `json:"tags"`
	ViewCount        int64      `json:"viewCount"`
	LeadsCount       int64      `json:"leadsCount"`
	UpdatedAt        string     `json:"updatedAt"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Money carries the amount as a decimal string, storefront-style.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Collection is the catalog shape for a virtual listing group.
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
	UpdatedAt   string `json:"updatedAt"`
}

// ListingTags is the named form of the positional tags array. The storefront
// reads tags by index, so ordering is load-bearing: index 0 is the type
// badge, 1 the city, 2 the address. Keep the struct as the source of truth
// and serialize positionally only at the boundary.
type ListingTags struct {
	Category string
	City     string
	Address  string
}

// Positional returns the fixed-position array form consumed by callers.
func (t ListingTags) Positional() []string {
	return []string{t.Category, t.City, t.Address}
}
