package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/ai"
	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/productform"
	"github.com/01moynul/taptosell-admin/internal/repository"
	"github.com/01moynul/taptosell-admin/internal/services"
	"github.com/01moynul/taptosell-admin/internal/storage"
	"github.com/01moynul/taptosell-admin/internal/validation"
)

// respondError maps err to a status and writes gin.H{"error": ...}.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": verr.Fields})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, productform.ErrVariantIndex), errors.Is(err, productform.ErrImagePosition):
		status = http.StatusNotFound
	case errors.Is(err, productform.ErrInvalidDescription), errors.Is(err, ai.ErrEmptyDescription):
		status = http.StatusBadRequest
	case errors.Is(err, productform.ErrSaveInProgress):
		status = http.StatusConflict
	case errors.Is(err, productform.ErrClosed), errors.Is(err, imagestate.ErrReleased):
		status = http.StatusGone
	case errors.Is(err, productform.ErrNoUploader), errors.Is(err, productform.ErrNoSaver):
		status = http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrUnsupportedType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
