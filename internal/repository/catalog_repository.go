package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// CatalogRepository reads the reference lists offered by the product form.
type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// Categories returns every category with its parent and ordered parameters.
func (r *CatalogRepository) Categories(ctx context.Context) ([]models.Category, error) {
	// 1. --- Flat category list ---
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, url, parent_id, created_at, updated_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		var parentID sql.NullInt64
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.URL, &parentID, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			id := parentID.Int64
			cat.ParentID = &id
		}
		cat.Parameters = []models.Parameter{}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. --- Parameters, in display order ---
	params, err := r.parameters(ctx)
	if err != nil {
		return nil, err
	}

	// 3. --- Attach parents and parameters ---
	index := make(map[int64]int, len(categories))
	for i := range categories {
		index[categories[i].ID] = i
	}
	for _, p := range params {
		if i, ok := index[p.CategoryID]; ok {
			categories[i].Parameters = append(categories[i].Parameters, p)
		}
	}
	for i := range categories {
		if categories[i].ParentID == nil {
			continue
		}
		if pi, ok := index[*categories[i].ParentID]; ok {
			parent := categories[pi]
			categories[i].Parent = &models.Category{ID: parent.ID, Name: parent.Name, URL: parent.URL}
		}
	}
	return categories, nil
}

func (r *CatalogRepository) parameters(ctx context.Context) ([]models.Parameter, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, category_id, name, position FROM parameters ORDER BY category_id, position")
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var params []models.Parameter
	for rows.Next() {
		var p models.Parameter
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Position); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// Brands returns all brands ordered by name.
func (r *CatalogRepository) Brands(ctx context.Context) ([]models.Brand, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, url, created_at, updated_at FROM brands ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.URL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// Tags returns all tags ordered by name.
func (r *CatalogRepository) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, url FROM tags ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.URL); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Sizes returns all sizes ordered by id.
func (r *CatalogRepository) Sizes(ctx context.Context) ([]models.Size, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, url FROM sizes ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query sizes: %w", err)
	}
	defer rows.Close()

	sizes := []models.Size{}
	for rows.Next() {
		var s models.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.URL); err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		sizes = append(sizes, s)
	}
	return sizes, rows.Err()
}

// Colors returns all colors ordered by name.
func (r *CatalogRepository) Colors(ctx context.Context) ([]models.Color, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, code FROM colors ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query colors: %w", err)
	}
	defer rows.Close()

	colors := []models.Color{}
	for rows.Next() {
		var c models.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}
