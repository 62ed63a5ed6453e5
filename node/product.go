package node

import "github.com/humblebanana/md2chat/inline"

// Product is the data shown on a product card.
type Product struct {
	SKU      string       `json:"sku"`
	Title    string       `json:"title"`
	Reason   string       `json:"reason,omitempty"`
	Label    string       `json:"label,omitempty"`
	Price    inline.Price `json:"price"`
	ImageURL string       `json:"imageUrl,omitempty"`
	URL      string       `json:"url,omitempty"`
}

// Catalog resolves product ids to card data.
type Catalog interface {
	Lookup(sku string) (Product, bool)
}

// MapCatalog is an in-memory Catalog keyed by SKU.
type MapCatalog map[string]Product

func (c MapCatalog) Lookup(sku string) (Product, bool) {
	p, ok := c[sku]
	if ok && p.SKU == "" {
		p.SKU = sku
	}
	return p, ok
}

var _ Catalog = MapCatalog(nil)

// Default card values for products missing from the catalog.
const (
	FallbackPrice = 999
	FallbackLabel = "到手价"
)

// FallbackProduct is the card shown for a SKU with no catalog entry.
func FallbackProduct(sku string) Product {
	return Product{
		SKU:   sku,
		Title: "SKU " + sku,
		Label: FallbackLabel,
		Price: inline.Price{Value: FallbackPrice, Currency: inline.DefaultCurrency},
	}
}

// Resolve builds card data for a product token. Catalog data wins for
// plain [product:ID] tokens; SKU links override the title of unknown
// products, and their price and image override any source.
func Resolve(c Catalog, tok *inline.Product) Product {
	var (
		p     Product
		found bool
	)
	if c != nil {
		p, found = c.Lookup(tok.ID)
	}
	if !found {
		p = FallbackProduct(tok.ID)
		if tok.Title != "" {
			p.Title = tok.Title
		}
	}
	if tok.Price != "" {
		p.Price = inline.ParsePrice(tok.Price)
	}
	if tok.ImageURL != "" {
		p.ImageURL = tok.ImageURL
	}
	return p
}
