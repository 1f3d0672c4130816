package loans

import (
	"net/http"
	"strconv"

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

// GetAll lists loans, optionally restricted to one status with ?status=.
func (h *Handler) GetAll(c *gin.Context) {
	loans, err := h.service.GetAll(c.Query("status"))
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

func (h *Handler) GetActive(c *gin.Context) {
	loans, err := h.service.GetActive()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

func (h *Handler) GetOverdue(c *gin.Context) {
	loans, err := h.service.GetOverdue()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

// GetByUser lists the loan history of one borrower.
func (h *Handler) GetByUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	loans, err := h.service.GetByUser(id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

// GetByBook lists the loan history of one book.
func (h *Handler) GetByBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	loans, err := h.service.GetByBook(id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}
	loan, err := h.service.GetByID(id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *Handler) Create(c *gin.Context) {
	var in models.LoanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, err := h.service.Create(in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	h.notify("loan_created", "Book loaned", gin.H{"id": loan.ID, "book_id": loan.BookID})
	c.JSON(http.StatusCreated, loan)
}

func (h *Handler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}
	var in models.ReturnInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, err := h.service.Return(id, in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	h.notify("loan_returned", "Book returned", gin.H{"id": loan.ID, "book_id": loan.BookID})
	c.JSON(http.StatusOK, loan)
}

// UpdateDueDate extends or shortens an open loan.
func (h *Handler) UpdateDueDate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}
	var body struct {
		DueDate string `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, err := h.service.UpdateDueDate(id, body.DueDate)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// Refresh recomputes overdue statuses on demand.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.service.RefreshOverdueStatuses(); err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}
