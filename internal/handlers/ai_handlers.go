package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuggestInput carries the current product name; the description is taken
// from the form's editor.
type SuggestInput struct {
	Name string `json:"name"`
}

// SuggestKeywords handles POST /v1/admin/product-forms/:formId/keywords/suggest
func (h *Handlers) SuggestKeywords(c *gin.Context) {
	if h.Suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions are not configured"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	// 1. Parse Input
	var input SuggestInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	// 2. Current description text
	state, err := s.Controller.EditorState()
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. Ask the AI service
	sug, err := h.Suggester.Suggest(c.Request.Context(), input.Name, state.PlainText())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": sug})
}
