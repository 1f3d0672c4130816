package labels

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/httperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Templates lists the supported sheet layouts.
func (h *Handler) Templates(c *gin.Context) {
	out := make([]Template, 0, len(Templates))
	for _, key := range []string{"65", "24", "21"} {
		out = append(out, Templates[key])
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

// Pending lists books awaiting a label.
func (h *Handler) Pending(c *gin.Context) {
	items, err := h.service.Pending()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Print renders a label batch and marks the books printed.
func (h *Handler) Print(c *gin.Context) {
	var body struct {
		BookIDs  []int64 `json:"book_ids"`
		Template string  `json:"template"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.Print(body.BookIDs, body.Template)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
