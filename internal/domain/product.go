package domain

import (
	"errors"
	"fmt"
	"time"
)

// Product is a read-only catalog snapshot. Prices are integral currency
// units; there is no fractional-cent arithmetic anywhere in the system.
type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	PriceRetail        int64     `json:"priceRetail"`
	PriceWholesale     int64     `json:"priceWholesale"`
	WholesaleThreshold int       `json:"wholesaleThreshold"`
	Category           string    `json:"category"`
	ImageURL           string    `json:"imageUrl"`
	Stock              int       `json:"stock"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
}

// CartLine is one product's quantity entry in a cart. Quantity is always >= 1
// while the line exists; a line driven to 0 is removed by the ledger.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

var ErrInvalidProduct = errors.New("invalid product document")

// ProductDocument is the loosely-typed shape of a product as it arrives from
// upstream sources (bundled snapshots, admin form payloads). Fields may be
// missing; ParseProduct defaults or rejects them.
type ProductDocument struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PriceRetail        int64  `json:"priceRetail"`
	PriceWholesale     int64  `json:"priceWholesale"`
	WholesaleThreshold int    `json:"wholesaleThreshold"`
	Category           string `json:"category"`
	ImageURL           string `json:"imageUrl"`
	Stock              int    `json:"stock"`
}

// ParseProduct maps an upstream document into a validated Product.
// PriceWholesale > PriceRetail is tolerated (the caller should log it),
// structurally broken documents are not.
func ParseProduct(doc ProductDocument) (Product, error) {
	if doc.ID == "" {
		return Product{}, fmt.Errorf("%w: missing id", ErrInvalidProduct)
	}
	if doc.Name == "" {
		return Product{}, fmt.Errorf("%w: product %s has no name", ErrInvalidProduct, doc.ID)
	}
	if doc.PriceRetail < 0 || doc.PriceWholesale < 0 {
		return Product{}, fmt.Errorf("%w: product %s has a negative price", ErrInvalidProduct, doc.ID)
	}
	if doc.Stock < 0 {
		return Product{}, fmt.Errorf("%w: product %s has negative stock", ErrInvalidProduct, doc.ID)
	}

	threshold := doc.WholesaleThreshold
	if threshold < 1 {
		threshold = 1
	}

	return Product{
		ID:                 doc.ID,
		Name:               doc.Name,
		Description:        doc.Description,
		PriceRetail:        doc.PriceRetail,
		PriceWholesale:     doc.PriceWholesale,
		WholesaleThreshold: threshold,
		Category:           doc.Category,
		ImageURL:           doc.ImageURL,
		Stock:              doc.Stock,
	}, nil
}
