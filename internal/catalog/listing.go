package catalog

import "time"

type Listing struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields is what a seller supplies when creating or editing a listing.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
}

const PlaceholderImage = "https://placehold.co/600x400?text=EcoFinds"

var Categories = []string{
	"Clothing", "Electronics", "Home & Kitchen", "Books",
	"Furniture", "Sports", "Toys", "Other",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (f *Fields) Validate() error {
	if f.Title == "" || f.Description == "" {
		return ErrInvalidInput
	}
	if !ValidCategory(f.Category) {
		return ErrInvalidInput
	}
	if f.PriceCents < 0 {
		return ErrInvalidInput
	}
	if f.ImageURL == "" {
		f.ImageURL = PlaceholderImage
	}
	return nil
}

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// Filter narrows a catalog search. Zero value means all available listings,
// newest first.
type Filter struct {
	Keyword  string
	Category string
	Sort     SortKey
}
