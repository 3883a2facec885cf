package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/productform"
	"github.com/01moynul/taptosell-admin/internal/validation"
)

// ProductStore persists products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
}

// ProductSaveService validates a submitted product form, writes the product
// and sends the user back to the product list.
type ProductSaveService struct {
	store    ProductStore
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewProductSaveService(store ProductStore, logger logrus.FieldLogger) *ProductSaveService {
	return &ProductSaveService{
		store:    store,
		validate: validation.New(),
		log:      logger.WithField("component", "product_save"),
	}
}

// Save implements productform.Saver.
func (s *ProductSaveService) Save(ctx context.Context, nav productform.Navigator, req productform.SaveRequest) error {
	// 1. --- Validate ---
	if err := s.Validate(req); err != nil {
		return err
	}

	// 2. --- Convert ---
	product := ToProduct(req)

	// 3. --- Persist ---
	log := s.log.WithFields(logrus.Fields{"product_id": req.ProductID, "variants": len(product.ProductVariants)})
	if req.ProductID != 0 {
		if err := s.store.UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("update product %d: %w", req.ProductID, err)
		}
		log.Info("product updated")
	} else {
		id, err := s.store.CreateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		log.WithField("product_id", id).Info("product created")
	}

	// 4. --- Navigate ---
	if nav != nil {
		nav.NavigateTo(navigation.AdminProducts)
	}
	return nil
}

// Validate checks the fields and every submitted variant.
func (s *ProductSaveService) Validate(req productform.SaveRequest) error {
	fields := validation.FieldErrors{}
	if err := s.validate.Struct(req.Fields); err != nil {
		validation.Merge(fields, "", err)
	}
	for i := 0; i < req.VariantCount && i < len(req.Variants); i++ {
		if err := s.validate.Struct(req.Variants[i]); err != nil {
			validation.Merge(fields, fmt.Sprintf("variants[%d].", i), err)
		}
	}
	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}

// ToProduct converts a save request into the product to persist. Only
// characteristics with a value are kept. Variant i takes the images recorded
// for slot i.
func ToProduct(req productform.SaveRequest) *models.Product {
	f := req.Fields
	p := &models.Product{
		ID:                req.ProductID,
		Name:              strings.TrimSpace(f.Name),
		URL:               strings.TrimSpace(f.URL),
		Desc:              req.Description,
		ShortDesc:         f.ShortDesc,
		Keywords:          f.Keywords,
		CategoryID:        f.Category,
		BrandID:           f.Brand,
		Tags:              []models.Tag{},
		Sizes:             []models.Size{},
		ProductVariants:   []models.ProductVariant{},
		ParameterProducts: []models.ParameterProduct{},
	}
	if p.URL == "" {
		p.URL = slug.Make(p.Name)
	}

	for _, id := range f.Tags {
		p.Tags = append(p.Tags, models.Tag{ID: id})
	}
	for _, id := range f.Sizes {
		p.Sizes = append(p.Sizes, models.Size{ID: id})
	}

	for _, row := range req.ParameterProducts {
		value := strings.TrimSpace(row.Value)
		if value == "" {
			continue
		}
		id := row.ParameterID
		if id == 0 && row.Parameter != nil {
			id = row.Parameter.ID
		}
		p.ParameterProducts = append(p.ParameterProducts, models.ParameterProduct{ParameterID: id, Value: value})
	}

	for i := 0; i < req.VariantCount; i++ {
		var values productform.VariantValues
		if i < len(req.Variants) {
			values = req.Variants[i]
		}
		images := append([]models.Image{}, req.Images[i]...)
		p.ProductVariants = append(p.ProductVariants, models.ProductVariant{
			ID:        values.ID,
			ProductID: req.ProductID,
			Position:  i,
			Artical:   values.Artical,
			Price:     values.Price,
			OldPrice:  values.OldPrice,
			Available: values.Available,
			ColorID:   values.Color,
			Images:    images,
		})
	}
	return p
}
