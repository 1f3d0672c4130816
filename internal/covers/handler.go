package covers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/books"
	"biblioteca/internal/httperr"
)

type Handler struct {
	store *Store
	books *books.Service
}

func NewHandler(store *Store, books *books.Service) *Handler {
	return &Handler{store: store, books: books}
}

// Upload stores a cover image and attaches its reference to the book.
func (h *Handler) Upload(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	file, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cover file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read cover file"})
		return
	}
	defer src.Close()

	ref, err := h.store.Save(file.Filename, src)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	book, err := h.books.SetCover(id, ref)
	if err != nil {
		h.store.Remove(ref)
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// Serve streams a stored cover image.
func (h *Handler) Serve(c *gin.Context) {
	path, err := h.store.Resolve(c.Query("ref"))
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.File(path)
}
