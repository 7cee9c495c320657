package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"roomstay/internal/models"
)

// Client indexes approved listings for free-text search. The database stays
// the source of truth; the index is rebuilt nightly and on admin demand.
type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "listings",
	}
}

// InitIndex creates and configures the listings index.
func (c *Client) InitIndex() error {
	_, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"city",
		"locality",
		"address",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateFilterableAttributes(&[]string{
		"id",
		"price",
		"city",
		"type",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSortableAttributes(&[]string{
		"price",
		"created_at",
	})
	return err
}

// IndexProperty indexes a single listing.
func (c *Client) IndexProperty(p *models.Property) error {
	_, err := c.client.Index(c.index).AddDocuments([]models.Property{*p})
	return err
}

// IndexProperties indexes multiple listings.
func (c *Client) IndexProperties(rows []models.Property) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := c.client.Index(c.index).AddDocuments(rows)
	return err
}

// DeleteProperty removes one listing from the index.
func (c *Client) DeleteProperty(id string) error {
	_, err := c.client.Index(c.index).DeleteDocument(id)
	return err
}

// Search runs a free-text query and maps the hits back to listing rows.
func (c *Client) Search(query string, limit int64) ([]models.Property, error) {
	if limit <= 0 {
		limit = 20
	}

	result, err := c.client.Index(c.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]models.Property, 0, len(result.Hits))
	for _, hit := range result.Hits {
		data, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var p models.Property
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		rows = append(rows, p)
	}

	return rows, nil
}
