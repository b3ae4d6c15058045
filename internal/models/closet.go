package models

type Category string

const (
	CategoryTop    Category = "top"
	CategoryBottom Category = "bottom"
	CategoryShoes  Category = "shoes"
)

// Valid reports whether c is one of the known garment categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTop, CategoryBottom, CategoryShoes:
		return true
	}
	return false
}

// ClothingItem is a garment in the user's closet. Label is filled in by the
// server-side ingestion job once the uploaded image has been described.
type ClothingItem struct {
	ID        string   `json:"id"`
	Category  Category `json:"category"`
	Label     string   `json:"label,omitempty"`
	IsUnused  bool     `json:"isUnused"`
	ImageURLs []string `json:"imageUrls"`
}

// UploadProgress is the server's view of how many uploaded items finished ingestion.
type UploadProgress struct {
	Count         int  `json:"count"`
	HasMetMinimum bool `json:"hasMetMinimum"`
}
