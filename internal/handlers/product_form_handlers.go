package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/productform"
	"github.com/01moynul/taptosell-admin/internal/validation"
)

// --- Inputs ---

type OpenFormInput struct {
	ProductID *int64 `json:"productId"`
}

type ChangeCategoryInput struct {
	CategoryID int64 `json:"categoryId" binding:"required"`
}

type ParameterValueInput struct {
	Value string `json:"value"`
}

type DescriptionInput struct {
	Raw string `json:"raw"`
}

// OpenProductForm handles POST /v1/admin/product-forms
// A productId opens the form in edit mode.
func (h *Handlers) OpenProductForm(c *gin.Context) {
	var input OpenFormInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	ctx := c.Request.Context()

	// 1. --- Reference lists ---
	props, err := h.loadReferenceLists(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Product (edit mode) ---
	props.Title = "Create product"
	page := navigation.Path(navigation.AdminProductCreate)
	if input.ProductID != nil {
		product, err := h.Products.GetProduct(ctx, *input.ProductID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		props.Title = "Edit product"
		props.EditMode = true
		props.Product = product
		page = navigation.EditPath(product.ID)
	}

	// 3. --- Mount ---
	formID := uuid.NewString()
	nav := &navigation.Recorder{}
	ctl := productform.New(props, productform.Deps{
		FormID:     formID,
		ImageStore: h.ImageStore,
		Uploader:   h.Uploader,
		Saver:      h.Saver,
		Navigator:  nav,
		Logger:     h.Log,
	})
	if err := ctl.Mount(ctx); err != nil {
		_ = ctl.Unmount(ctx)
		h.respondError(c, err)
		return
	}
	h.Forms.Add(&FormSession{Controller: ctl, Nav: nav, UserID: c.GetInt64("userID")})

	view, err := ctl.View(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"formId": formID, "page": page, "form": view})
}

// session resolves :formId for the current user or replies 404.
func (h *Handlers) session(c *gin.Context) (*FormSession, bool) {
	s, ok := h.Forms.Get(c.Param("formId"), c.GetInt64("userID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product form not found"})
		return nil, false
	}
	return s, true
}

// intParam parses a path parameter or replies 400.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// respondView replies with the current FormView.
func (h *Handlers) respondView(c *gin.Context, s *FormSession, status int) {
	view, err := s.Controller.View(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"form": view})
}

// GetProductForm handles GET /v1/admin/product-forms/:formId
func (h *Handlers) GetProductForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respondView(c, s, http.StatusOK)
}

// ChangeCategory handles PUT /v1/admin/product-forms/:formId/category
func (h *Handlers) ChangeCategory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var input ChangeCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Controller.ChangeCategory(input.CategoryID); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c, s, http.StatusOK)
}

// ChangeParameter handles PUT /v1/admin/product-forms/:formId/parameters/:index
func (h *Handlers) ChangeParameter(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var input ParameterValueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Controller.ParameterChange(index)(input.Value)
	h.respondView(c, s, http.StatusOK)
}

// SetDescription handles PUT /v1/admin/product-forms/:formId/description
func (h *Handlers) SetDescription(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var input DescriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Controller.SetDescription(input.Raw); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c, s, http.StatusOK)
}

// AddVariant handles POST /v1/admin/product-forms/:formId/variants
func (h *Handlers) AddVariant(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := s.Controller.AddVariant()
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := s.Controller.View(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": index, "form": view})
}

// UpdateVariant handles PUT /v1/admin/product-forms/:formId/variants/:index
func (h *Handlers) UpdateVariant(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var input productform.VariantValues
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data.", "fields": validation.FromError(err)})
		return
	}
	if err := s.Controller.UpdateVariant(index, input); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c, s, http.StatusOK)
}

// RemoveVariantImage handles DELETE /v1/admin/product-forms/:formId/variants/:index/images/:position
func (h *Handlers) RemoveVariantImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	position, ok := intParam(c, "position")
	if !ok {
		return
	}
	if err := s.Controller.RemoveVariantImage(c.Request.Context(), index, position); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c, s, http.StatusOK)
}

// SubmitProductForm handles POST /v1/admin/product-forms/:formId/submit
// On success the form is closed and the reply carries the page to go to.
func (h *Handlers) SubmitProductForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var fields productform.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data.", "fields": validation.FromError(err)})
		return
	}

	ctx := c.Request.Context()
	s.Nav.Reset()
	if err := s.Controller.Submit(ctx, fields); err != nil {
		h.respondError(c, err)
		return
	}

	target, _ := s.Nav.Target()
	if err := h.Forms.Close(ctx, s.Controller.FormID()); err != nil {
		h.Log.WithError(err).Warn("failed to release submitted form")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product saved", "redirect": target})
}

// GoBack handles POST /v1/admin/product-forms/:formId/back
func (h *Handlers) GoBack(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Nav.Reset()
	s.Controller.GoBack()
	target, _ := s.Nav.Target()

	if err := h.Forms.Close(c.Request.Context(), s.Controller.FormID()); err != nil {
		h.Log.WithError(err).Warn("failed to release form")
	}
	c.JSON(http.StatusOK, gin.H{"redirect": target})
}

// CloseProductForm handles DELETE /v1/admin/product-forms/:formId
func (h *Handlers) CloseProductForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.Forms.Close(c.Request.Context(), s.Controller.FormID()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
