package models

import "time"

// Category defines the struct for the 'categories' table
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"` // Use pointer for NULL
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (Not in DB table, populated manually)
	Parent     *Category   `json:"parent,omitempty" db:"-"`
	Parameters []Parameter `json:"parameters" db:"-"`
}

// Parameter is a characteristic defined per category ('parameters' table),
// e.g. "Material" or "Weight".
type Parameter struct {
	ID         int64  `json:"id" db:"id"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Name       string `json:"name" db:"name"`
	Position   int    `json:"-" db:"position"`
}

// ParameterProduct pairs a parameter with the value entered for one product
// ('parameter_products' table).
type ParameterProduct struct {
	ParameterID int64      `json:"parameterId" db:"parameter_id"`
	Parameter   *Parameter `json:"parameter,omitempty" db:"-"`
	Value       string     `json:"value" db:"value"`
}

// ParentName returns the name of the parent category, or "" for roots.
func (c Category) ParentName() string {
	if c.Parent == nil {
		return ""
	}
	return c.Parent.Name
}
