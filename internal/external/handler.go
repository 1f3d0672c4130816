package external

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/httperr"
)

type Handler struct {
	searcher *Searcher
	importer *Importer
}

func NewHandler(searcher *Searcher, importer *Importer) *Handler {
	return &Handler{searcher: searcher, importer: importer}
}

// Search queries the external catalogs.
func (h *Handler) Search(c *gin.Context) {
	opts := SearchOptions{
		Mode:      strings.TrimSpace(c.Query("mode")),
		Author:    strings.TrimSpace(c.Query("author")),
		Publisher: strings.TrimSpace(c.Query("publisher")),
		Year:      strings.TrimSpace(c.Query("year")),
		Language:  strings.TrimSpace(c.Query("language")),
		Exact:     c.Query("exact") == "1" || c.Query("exact") == "true",
	}
	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"), opts)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Import catalogs an external candidate, resolving its authors locally.
func (h *Handler) Import(c *gin.Context) {
	var candidate Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.importer.Import(candidate)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}
