package catalog

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"roomstay/internal/models"
)

func sampleProperty() *models.Property {
	images, _ := EncodeImages([]models.PropertyImage{
		{URL: "https://img.example.com/room1.jpg", AltText: "Sunny PG Room", Width: 1200, Height: 800},
	})
	return &models.Property{
		ID:               "b2f1c9a0-0000-4000-8000-000000000001",
		Handle:           "sunny-pg-room",
		Title:            "Sunny PG Room",
		Description:      "Bright room near the bus stand.",
		Price:            5000,
		Currency:         "INR",
		Address:          "12 Station Road",
		City:             "Mandsaur",
		Locality:         "Station Road",
		Type:             models.PropertyTypePG,
		Images:           datatypes.JSON(images),
		AvailableForSale: true,
		Status:           models.PropertyStatusApproved,
		UserID:           "user-a",
		ViewCount:        7,
		LeadsCount:       2,
		UpdatedAt:        time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMapPropertyToProduct(t *testing.T) {
	p := sampleProperty()
	product := MapPropertyToProduct(p)

	if product.Handle != "sunny-pg-room" || product.Title != "Sunny PG Room" {
		t.Errorf("identity fields: handle=%q title=%q", product.Handle, product.Title)
	}
	if product.PriceRange.MinVariantPrice.Amount != "5000" {
		t.Errorf("min price amount = %q, want \"5000\"", product.PriceRange.MinVariantPrice.Amount)
	}
	if product.PriceRange.MinVariantPrice != product.PriceRange.MaxVariantPrice {
		t.Error("single-variant listing must collapse the price range")
	}
	if product.PriceRange.MinVariantPrice.CurrencyCode != "INR" {
		t.Errorf("currency = %q, want INR", product.PriceRange.MinVariantPrice.CurrencyCode)
	}
	if len(product.Variants) != 1 || product.Variants[0].Price.Amount != "5000" {
		t.Fatalf("variants = %+v, want one default variant at 5000", product.Variants)
	}
	if len(product.Images) != 1 {
		t.Fatalf("images length = %d, want 1", len(product.Images))
	}
	if product.Images[0].URL != "https://img.example.com/room1.jpg" || product.Images[0].Width != 1200 {
		t.Errorf("image mapped wrong: %+v", product.Images[0])
	}
	if product.FeaturedImage == nil || product.FeaturedImage.URL != product.Images[0].URL {
		t.Error("featured image should be the first image")
	}
}

func TestTagsPositionalContract(t *testing.T) {
	product := MapPropertyToProduct(sampleProperty())

	if len(product.Tags) != 3 {
		t.Fatalf("tags length = %d, want fixed 3", len(product.Tags))
	}
	if product.Tags[0] != "PG" {
		t.Errorf("tags[0] = %q, want type badge \"PG\"", product.Tags[0])
	}
	if product.Tags[1] != "Mandsaur" {
		t.Errorf("tags[1] = %q, want city", product.Tags[1])
	}
	if product.Tags[2] != "12 Station Road" {
		t.Errorf("tags[2] = %q, want address", product.Tags[2])
	}
}

func TestMapHandlesMissingImages(t *testing.T) {
	p := sampleProperty()
	p.Images = nil
	product := MapPropertyToProduct(p)

	if product.Images == nil || len(product.Images) != 0 {
		t.Errorf("missing images should map to empty slice, got %v", product.Images)
	}
	if product.FeaturedImage != nil {
		t.Error("featured image should be nil with no images")
	}
}

func TestMapHandlesCorruptImagesColumn(t *testing.T) {
	p := sampleProperty()
	p.Images = datatypes.JSON([]byte("{not json"))
	product := MapPropertyToProduct(p)

	if len(product.Images) != 0 {
		t.Errorf("corrupt column should degrade to empty images, got %v", product.Images)
	}
}

func TestMapDBCollectionToCollection(t *testing.T) {
	c := &models.Collection{
		Handle:      "pg-rooms",
		Title:       "PG Rooms",
		Description: "Paying-guest rooms across the city.",
		UpdatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	got := MapDBCollectionToCollection(c)

	if got.Handle != "pg-rooms" || got.Title != "PG Rooms" || got.Description != c.Description {
		t.Errorf("field copy wrong: %+v", got)
	}
	if got.Path != "/search/pg-rooms" {
		t.Errorf("path = %q", got.Path)
	}
}

func TestMapPropertiesNeverNil(t *testing.T) {
	if got := MapProperties(nil); got == nil {
		t.Error("MapProperties(nil) returned nil slice")
	}
}
