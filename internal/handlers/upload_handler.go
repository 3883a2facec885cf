package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/productform"
)

// formFile opens the multipart "file" field or replies 400.
func formFile(c *gin.Context) (productform.File, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return productform.File{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return productform.File{}, nil, false
	}
	return productform.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	}, func() { f.Close() }, true
}

// UploadEditorImage handles POST /v1/admin/product-forms/:formId/uploads
// The reply shape is the one the description editor expects.
func (h *Handlers) UploadEditorImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	file, closeFile, ok := formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	url, err := s.Controller.UploadImage(c.Request.Context(), file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"link": url}})
}

// UploadVariantImage handles POST /v1/admin/product-forms/:formId/variants/:index/images
func (h *Handlers) UploadVariantImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	file, closeFile, ok := formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	img, err := s.Controller.UploadVariantImage(c.Request.Context(), index, file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}
