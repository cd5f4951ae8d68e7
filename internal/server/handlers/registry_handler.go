package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/receipt"
	"github.com/the3rafas/cr7system/internal/service/registry"
)

// Patch actions understood by Update.
const (
	actionHold       = "hold"
	actionCreateBill = "createBill"
)

// RegistryHandler handles registry entry HTTP endpoints.
type RegistryHandler struct {
	svc    registry.Service
	logger *zap.Logger
}

// NewRegistryHandler constructs the HTTP handler adapter.
func NewRegistryHandler(svc registry.Service, logger *zap.Logger) *RegistryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryHandler{svc: svc, logger: logger}
}

type createEntryRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type updateEntryRequest struct {
	ID        *int                     `json:"id"`
	Date      *string                  `json:"date"`
	Action    *string                  `json:"action"`
	BillItems []registry.BillItemInput `json:"billItems"`
}

type deleteEntryRequest struct {
	ID   *int    `json:"id"`
	Date *string `json:"date"`
}

// List returns entries for the requested status view: ?status=done for the
// done-inclusive view, anything else for today's open work.
func (h *RegistryHandler) List(c *gin.Context) {
	filter := registry.FilterPending
	if c.Query("status") == string(registry.FilterDone) {
		filter = registry.FilterDone
	}

	entries, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Create registers a new pending entry from {name, number}.
func (h *RegistryHandler) Create(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"name" and "number" must be strings`})
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), req.Name, req.Number)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Update applies a lifecycle action to the (id, date) entry: "hold" or
// "createBill".
func (h *RegistryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil || req.Date == nil || req.Action == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"id" (number), "date" (string), and "action" (string) are required`})
		return
	}

	switch *req.Action {
	case actionHold:
		entry, err := h.svc.Hold(c.Request.Context(), *req.ID, *req.Date)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	case actionCreateBill:
		if req.BillItems == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": `"billItems" must be an array of {productId, quantity}`})
			return
		}
		entry, err := h.svc.CreateBill(c.Request.Context(), *req.ID, *req.Date, req.BillItems)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown action: %s", *req.Action)})
	}
}

// Delete removes the (id, date) entry and returns the remaining entries.
func (h *RegistryHandler) Delete(c *gin.Context) {
	var req deleteEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil || req.Date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"id" must be a number and "date" must be a string`})
		return
	}

	remaining, err := h.svc.Delete(c.Request.Context(), *req.ID, *req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted entry id=%d on %s.", *req.ID, *req.Date),
		"entries": remaining,
	})
}

// Receipt renders the printable HTML receipt for a billed entry, addressed by
// ?id= and ?date=.
func (h *RegistryHandler) Receipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"id" must be a number`})
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"date" is required`})
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), id, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	html, err := receipt.Render(entry)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
