package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// ProductRepository reads and writes products with their joined rows.
type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ListProducts returns a page of products, most recently updated first.
// Joined rows other than the brand are not loaded.
func (r *ProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.name, p.url, p.short_desc, p.category_id, p.brand_id, p.created_at, p.updated_at, b.name
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id
		ORDER BY p.updated_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var categoryID, brandID sql.NullInt64
		var brandName sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.ShortDesc, &categoryID, &brandID,
			&p.CreatedAt, &p.UpdatedAt, &brandName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CategoryID = nullID(categoryID)
		p.BrandID = nullID(brandID)
		if p.BrandID != nil && brandName.Valid {
			p.Brand = &models.Brand{ID: *p.BrandID, Name: brandName.String}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct loads a product with its brand, tags, sizes, variants (ordered by
// position, with colors and images) and parameter values. The category is
// left to the caller, which already holds the full category list.
func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	// 1. --- Product row ---
	var p models.Product
	var categoryID, brandID sql.NullInt64
	var brandName, brandURL sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.url, p.desc, p.short_desc, p.keywords, p.category_id, p.brand_id,
		       p.created_at, p.updated_at, b.name, b.url
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.id = ?`, id).Scan(
		&p.ID, &p.Name, &p.URL, &p.Desc, &p.ShortDesc, &p.Keywords, &categoryID, &brandID,
		&p.CreatedAt, &p.UpdatedAt, &brandName, &brandURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", id, err)
	}
	p.CategoryID = nullID(categoryID)
	p.BrandID = nullID(brandID)
	if p.BrandID != nil && brandName.Valid {
		p.Brand = &models.Brand{ID: *p.BrandID, Name: brandName.String, URL: brandURL.String}
	}

	// 2. --- Tags and sizes ---
	if p.Tags, err = r.productTags(ctx, id); err != nil {
		return nil, err
	}
	if p.Sizes, err = r.productSizes(ctx, id); err != nil {
		return nil, err
	}

	// 3. --- Variants with images ---
	if p.ProductVariants, err = r.productVariants(ctx, id); err != nil {
		return nil, err
	}

	// 4. --- Characteristics ---
	if p.ParameterProducts, err = r.parameterProducts(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) productTags(ctx context.Context, productID int64) ([]models.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT t.id, t.name, t.url FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = ? ORDER BY t.name ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.URL); err != nil {
			return nil, fmt.Errorf("scan product tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *ProductRepository) productSizes(ctx context.Context, productID int64) ([]models.Size, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.name, s.url FROM sizes s
		JOIN product_sizes ps ON ps.size_id = s.id
		WHERE ps.product_id = ? ORDER BY s.id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product sizes: %w", err)
	}
	defer rows.Close()

	sizes := []models.Size{}
	for rows.Next() {
		var s models.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.URL); err != nil {
			return nil, fmt.Errorf("scan product size: %w", err)
		}
		sizes = append(sizes, s)
	}
	return sizes, rows.Err()
}

func (r *ProductRepository) productVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT v.id, v.product_id, v.position, v.artical, v.price, v.old_price, v.available, v.color_id, c.name, c.code
		FROM product_variants v
		LEFT JOIN colors c ON c.id = v.color_id
		WHERE v.product_id = ? ORDER BY v.position ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product variants: %w", err)
	}
	defer rows.Close()

	variants := []models.ProductVariant{}
	byID := map[int64]int{}
	for rows.Next() {
		var v models.ProductVariant
		var colorID sql.NullInt64
		var colorName, colorCode sql.NullString
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Position, &v.Artical, &v.Price, &v.OldPrice,
			&v.Available, &colorID, &colorName, &colorCode); err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		v.ColorID = nullID(colorID)
		if v.ColorID != nil && colorName.Valid {
			v.Color = &models.Color{ID: *v.ColorID, Name: colorName.String, Code: colorCode.String}
		}
		v.Images = []models.Image{}
		byID[v.ID] = len(variants)
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	imgRows, err := r.DB.QueryContext(ctx, `
		SELECT i.id, i.product_variant_id, i.filename, i.original_name
		FROM images i
		JOIN product_variants v ON v.id = i.product_variant_id
		WHERE v.product_id = ? ORDER BY i.product_variant_id, i.position ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query variant images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var img models.Image
		var variantID int64
		if err := imgRows.Scan(&img.ID, &variantID, &img.Filename, &img.OriginalName); err != nil {
			return nil, fmt.Errorf("scan variant image: %w", err)
		}
		if i, ok := byID[variantID]; ok {
			variants[i].Images = append(variants[i].Images, img)
		}
	}
	return variants, imgRows.Err()
}

func (r *ProductRepository) parameterProducts(ctx context.Context, productID int64) ([]models.ParameterProduct, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT pp.parameter_id, pp.value, pa.category_id, pa.name, pa.position
		FROM parameter_products pp
		JOIN parameters pa ON pa.id = pp.parameter_id
		WHERE pp.product_id = ? ORDER BY pa.position ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query parameter values: %w", err)
	}
	defer rows.Close()

	values := []models.ParameterProduct{}
	for rows.Next() {
		var pp models.ParameterProduct
		param := &models.Parameter{}
		if err := rows.Scan(&pp.ParameterID, &pp.Value, &param.CategoryID, &param.Name, &param.Position); err != nil {
			return nil, fmt.Errorf("scan parameter value: %w", err)
		}
		param.ID = pp.ParameterID
		pp.Parameter = param
		values = append(values, pp)
	}
	return values, rows.Err()
}

// CreateProduct inserts p with all joined rows in one transaction and returns
// the new id.
func (r *ProductRepository) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, url, `+"`desc`"+`, short_desc, keywords, category_id, brand_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.URL, p.Desc, p.ShortDesc, p.Keywords, p.CategoryID, p.BrandID, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read product id: %w", err)
	}

	if err := writeChildren(ctx, tx, id, p); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product: %w", err)
	}
	p.ID = id
	p.CreatedAt, p.UpdatedAt = now, now
	return id, nil
}

// UpdateProduct overwrites the product with p.ID and replaces its joined rows
// in one transaction.
func (r *ProductRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. --- Lock the row ---
	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM products WHERE id = ? FOR UPDATE", p.ID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock product %d: %w", p.ID, err)
	}

	// 2. --- Scalar fields ---
	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET name = ?, url = ?, `+"`desc`"+` = ?, short_desc = ?, keywords = ?,
		       category_id = ?, brand_id = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.URL, p.Desc, p.ShortDesc, p.Keywords, p.CategoryID, p.BrandID, now, p.ID); err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	// 3. --- Replace joined rows ---
	for _, q := range []string{
		"DELETE FROM product_tags WHERE product_id = ?",
		"DELETE FROM product_sizes WHERE product_id = ?",
		"DELETE FROM parameter_products WHERE product_id = ?",
		"DELETE i FROM images i JOIN product_variants v ON v.id = i.product_variant_id WHERE v.product_id = ?",
		"DELETE FROM product_variants WHERE product_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, p.ID); err != nil {
			return fmt.Errorf("clear product %d rows: %w", p.ID, err)
		}
	}
	if err := writeChildren(ctx, tx, p.ID, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

func writeChildren(ctx context.Context, tx *sql.Tx, productID int64, p *models.Product) error {
	for _, t := range p.Tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO product_tags (product_id, tag_id) VALUES (?, ?)", productID, t.ID); err != nil {
			return fmt.Errorf("insert product tag: %w", err)
		}
	}
	for _, s := range p.Sizes {
		if _, err := tx.ExecContext(ctx, "INSERT INTO product_sizes (product_id, size_id) VALUES (?, ?)", productID, s.ID); err != nil {
			return fmt.Errorf("insert product size: %w", err)
		}
	}
	for _, pp := range p.ParameterProducts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO parameter_products (product_id, parameter_id, value) VALUES (?, ?, ?)",
			productID, pp.ParameterID, pp.Value); err != nil {
			return fmt.Errorf("insert parameter value: %w", err)
		}
	}
	for i := range p.ProductVariants {
		v := &p.ProductVariants[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, position, artical, price, old_price, available, color_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			productID, i, v.Artical, v.Price, v.OldPrice, v.Available, v.ColorID)
		if err != nil {
			return fmt.Errorf("insert variant %d: %w", i, err)
		}
		variantID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read variant id: %w", err)
		}
		v.ID, v.ProductID, v.Position = variantID, productID, i
		if err := insertImages(ctx, tx, variantID, v.Images); err != nil {
			return err
		}
	}
	return nil
}

func insertImages(ctx context.Context, db execer, variantID int64, images []models.Image) error {
	for pos, img := range images {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO images (product_variant_id, position, filename, original_name) VALUES (?, ?, ?, ?)",
			variantID, pos, img.Filename, img.OriginalName); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	return nil
}

func nullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
