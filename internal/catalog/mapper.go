package catalog

import (
	"encoding/json"
	"strconv"
	"time"

	"roomstay/internal/models"
)

// MapPropertyToProduct translates a stored listing row into the catalog
// Product shape. Pure and total: missing images map to an empty slice, never
// a nil-pointer surprise downstream.
func MapPropertyToProduct(p *models.Property) Product {
	price := Money{
		Amount:       strconv.Itoa(p.Price),
		CurrencyCode: p.Currency,
	}

	images := decodeImages(p.Images)
	var featured *Image
	if len(images) > 0 {
		featured = &images[0]
	}

	tags := ListingTags{
		Category: string(p.Type),
		City:     p.City,
		Address:  p.Address,
	}

	return Product{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		AvailableForSale: p.AvailableForSale,
		PriceRange: PriceRange{
			MinVariantPrice: price,
			MaxVariantPrice: price,
		},
		Variants: []Variant{
			{
				ID:               p.ID + "-default",
				Title:            "Default",
				AvailableForSale: p.AvailableForSale,
				Price:            price,
			},
		},
		Images:        images,
		FeaturedImage: featured,
		Tags:          tags.Positional(),
		ViewCount:     p.ViewCount,
		LeadsCount:    p.LeadsCount,
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// MapProperties maps a row slice, always returning a non-nil slice.
func MapProperties(rows []models.Property) []Product {
	products := make([]Product, 0, len(rows))
	for i := range rows {
		products = append(products, MapPropertyToProduct(&rows[i]))
	}
	return products
}

// MapDBCollectionToCollection is the 1:1 field copy for collections.
func MapDBCollectionToCollection(c *models.Collection) Collection {
	return Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		Path:        "/search/" + c.Handle,
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeImages(raw []byte) []Image {
	images := []Image{}
	if len(raw) == 0 {
		return images
	}
	var stored []models.PropertyImage
	if err := json.Unmarshal(raw, &stored); err != nil {
		// A corrupt column degrades to no images rather than failing the read.
		return images
	}
	for _, img := range stored {
		images = append(images, Image{
			URL:     img.URL,
			AltText: img.AltText,
			Width:   img.Width,
			Height:  img.Height,
		})
	}
	return images
}

// EncodeImages serializes the write-side image list into the JSON column
// shape used by the properties table.
func EncodeImages(images []models.PropertyImage) ([]byte, error) {
	if images == nil {
		images = []models.PropertyImage{}
	}
	return json.Marshal(images)
}
