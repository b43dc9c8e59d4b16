package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Frannkode/QuickOrder/internal/domain"
)

//go:embed data/products.json
var staticProductsJSON []byte

// StaticSnapshot parses the bundled catalog used when the repository is
// unreachable. Documents that fail boundary validation are skipped, not
// fatal: a partial offline catalog beats none.
func StaticSnapshot() ([]domain.Product, error) {
	var docs []domain.ProductDocument
	if err := json.Unmarshal(staticProductsJSON, &docs); err != nil {
		return nil, fmt.Errorf("parse bundled catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := domain.ParseProduct(doc)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
