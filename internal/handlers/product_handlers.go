package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/productform"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// GetProducts handles GET /v1/admin/products
func (h *Handlers) GetProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	products, err := h.Products.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "limit": limit, "offset": offset})
}

// GetFormOptions handles GET /v1/admin/product-form/options
func (h *Handlers) GetFormOptions(c *gin.Context) {
	props, err := h.loadReferenceLists(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categoryOptions": productform.CategoryOptions(props.Categories),
		"categories":      props.Categories,
		"brands":          props.Brands,
		"tags":            props.Tags,
		"sizes":           props.Sizes,
		"colors":          props.Colors,
	})
}

// loadReferenceLists returns Props holding every reference list.
func (h *Handlers) loadReferenceLists(ctx context.Context) (productform.Props, error) {
	var props productform.Props
	var err error

	if props.Categories, err = h.Catalog.Categories(ctx); err != nil {
		return props, fmt.Errorf("load categories: %w", err)
	}
	if props.Brands, err = h.Catalog.Brands(ctx); err != nil {
		return props, fmt.Errorf("load brands: %w", err)
	}
	if props.Tags, err = h.Catalog.Tags(ctx); err != nil {
		return props, fmt.Errorf("load tags: %w", err)
	}
	if props.Sizes, err = h.Catalog.Sizes(ctx); err != nil {
		return props, fmt.Errorf("load sizes: %w", err)
	}
	if props.Colors, err = h.Catalog.Colors(ctx); err != nil {
		return props, fmt.Errorf("load colors: %w", err)
	}
	return props, nil
}
