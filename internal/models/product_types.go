package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Desc holds the serialized rich-text document produced by the admin editor.
type Product struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	URL        string `json:"url" db:"url"`
	Desc       string `json:"desc" db:"desc"`
	ShortDesc  string `json:"shortDesc" db:"short_desc"`
	Keywords   string `json:"keywords" db:"keywords"`
	CategoryID *int64 `json:"categoryId,omitempty" db:"category_id"`
	BrandID    *int64 `json:"brandId,omitempty" db:"brand_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (Not in DB table, populated manually)
	Category          *Category          `json:"category,omitempty" db:"-"`
	Brand             *Brand             `json:"brand,omitempty" db:"-"`
	Tags              []Tag              `json:"tags" db:"-"`
	Sizes             []Size             `json:"sizes" db:"-"`
	ProductVariants   []ProductVariant   `json:"productVariants" db:"-"`
	ParameterProducts []ParameterProduct `json:"parameterProducts" db:"-"`
}

// ProductVariant is the model for the 'product_variants' table.
// Variants are ordered by Position; the admin form addresses their image
// collections by that position.
type ProductVariant struct {
	ID        int64   `json:"id" db:"id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Position  int     `json:"position" db:"position"`
	Artical   string  `json:"artical" db:"artical"`
	Price     float64 `json:"price" db:"price"`
	OldPrice  float64 `json:"oldPrice" db:"old_price"`
	Available bool    `json:"available" db:"available"`
	ColorID   *int64  `json:"colorId,omitempty" db:"color_id"`

	Color  *Color  `json:"color,omitempty" db:"-"`
	Images []Image `json:"images" db:"-"`
}

// Image is the model for the 'images' table. Filename is the public URL
// returned by the upload storage.
type Image struct {
	ID           int64  `json:"id,omitempty" db:"id"`
	Filename     string `json:"filename" db:"filename"`
	OriginalName string `json:"originalName,omitempty" db:"original_name"`
}
