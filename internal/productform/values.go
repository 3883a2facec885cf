package productform

import "github.com/01moynul/taptosell-admin/internal/models"

// Fields are the plain inputs of the product form, as submitted by the client.
type Fields struct {
	Name      string  `json:"name" validate:"required"`
	URL       string  `json:"url"`
	ShortDesc string  `json:"shortDesc"`
	Keywords  string  `json:"keywords"`
	Category  *int64  `json:"category" validate:"required"`
	Brand     *int64  `json:"brand" validate:"required"`
	Tags      []int64 `json:"tags"`
	Sizes     []int64 `json:"sizes"`
}

// VariantValues are the inputs of one variant sub-form.
type VariantValues struct {
	ID        int64   `json:"id,omitempty"`
	Artical   string  `json:"artical"`
	Price     float64 `json:"price" validate:"gte=0"`
	OldPrice  float64 `json:"oldPrice" validate:"gte=0"`
	Available bool    `json:"available"`
	Color     *int64  `json:"color"`
}

// Values is the working representation of a product inside the form.
type Values struct {
	Fields
	Desc          string                 `json:"desc"`
	Variants      []VariantValues        `json:"variants"`
	VariantImages map[int][]models.Image `json:"variantImages"`
}

// InitialValues converts a stored product into form values. A nil product
// yields blank values with no variants.
func InitialValues(p *models.Product) Values {
	v := Values{
		Fields: Fields{
			Tags:  []int64{},
			Sizes: []int64{},
		},
		Variants:      []VariantValues{},
		VariantImages: map[int][]models.Image{},
	}
	if p == nil {
		return v
	}

	v.Name = p.Name
	v.URL = p.URL
	v.Desc = p.Desc
	v.ShortDesc = p.ShortDesc
	v.Keywords = p.Keywords

	v.Category = p.CategoryID
	if v.Category == nil && p.Category != nil {
		id := p.Category.ID
		v.Category = &id
	}
	v.Brand = p.BrandID
	if v.Brand == nil && p.Brand != nil {
		id := p.Brand.ID
		v.Brand = &id
	}

	for _, t := range p.Tags {
		v.Tags = append(v.Tags, t.ID)
	}
	for _, s := range p.Sizes {
		v.Sizes = append(v.Sizes, s.ID)
	}

	for i, pv := range p.ProductVariants {
		color := pv.ColorID
		if color == nil && pv.Color != nil {
			id := pv.Color.ID
			color = &id
		}
		v.Variants = append(v.Variants, VariantValues{
			ID:        pv.ID,
			Artical:   pv.Artical,
			Price:     pv.Price,
			OldPrice:  pv.OldPrice,
			Available: pv.Available,
			Color:     color,
		})
		v.VariantImages[i] = append([]models.Image{}, pv.Images...)
	}
	return v
}

// VariantSlots returns n blank variant slots.
func VariantSlots(n int) []VariantValues {
	if n < 0 {
		n = 0
	}
	return make([]VariantValues, n)
}
