package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/ai"
	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/productform"
)

// CatalogReader provides the reference lists of the product form.
type CatalogReader interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Brands(ctx context.Context) ([]models.Brand, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	Sizes(ctx context.Context) ([]models.Size, error)
	Colors(ctx context.Context) ([]models.Color, error)
}

// ProductReader loads stored products.
type ProductReader interface {
	ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// KeywordSuggester proposes SEO copy from a product description.
type KeywordSuggester interface {
	Suggest(ctx context.Context, name, description string) (ai.Suggestion, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog    CatalogReader
	Products   ProductReader
	Forms      *FormRegistry
	ImageStore imagestate.Store
	Saver      productform.Saver
	Uploader   productform.Uploader
	Suggester  KeywordSuggester // nil when no AI key is configured
	Log        logrus.FieldLogger
}
