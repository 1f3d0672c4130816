package books

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/httperr"
	"biblioteca/internal/ws"
	"biblioteca/pkg/models"
)

type Handler struct {
	service *Service
	hub     *ws.Hub
}

func NewHandler(service *Service, hub *ws.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) notify(event, message string, data interface{}) {
	if h.hub != nil {
		h.hub.Notify(event, message, data)
	}
}

// GetAll lists books, optionally filtered by the query string.
func (h *Handler) GetAll(c *gin.Context) {
	filters := models.BookFilters{
		Search:       strings.TrimSpace(c.Query("search")),
		ReadStatus:   strings.TrimSpace(c.Query("read_status")),
		Genre:        strings.TrimSpace(c.Query("genre")),
		Favorite:     flagQuery(c, "favorite"),
		Loanable:     flagQuery(c, "loanable"),
		LabelPrinted: flagQuery(c, "label_printed"),
	}
	if raw := c.Query("collection_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			filters.CollectionID = &id
		}
	}

	books, err := h.service.GetAll(filters)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	book, err := h.service.GetByID(id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) Create(c *gin.Context) {
	var in models.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.service.Create(in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	h.notify("book_created", "Book added to catalog", gin.H{"id": book.ID, "title": book.Title})
	c.JSON(http.StatusCreated, book)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	var in models.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.service.Update(id, in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	h.notify("book_updated", "Book updated", gin.H{"id": book.ID, "title": book.Title})
	c.JSON(http.StatusOK, book)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		httperr.JSON(c, err)
		return
	}
	h.notify("book_deleted", "Book removed from catalog", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// flagQuery parses a 0/1 or true/false query parameter, nil when absent.
func flagQuery(c *gin.Context, name string) *models.Flag {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	var f models.Flag
	switch strings.ToLower(raw) {
	case "1", "true":
		f = 1
	default:
		f = 0
	}
	return &f
}
