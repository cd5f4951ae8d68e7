package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/service/catalog"
)

// CatalogHandler handles product catalog HTTP endpoints.
type CatalogHandler struct {
	svc    catalog.Service
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

type addProductRequest struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

type deleteProductRequest struct {
	ID *int `json:"id"`
}

// List returns the full product array.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Create adds a product from {name, price}.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"name" must be a string and "price" must be a number`})
		return
	}

	product, err := h.svc.Add(c.Request.Context(), req.Name, *req.Price)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Delete removes the product named by {id} and returns the remaining list.
func (h *CatalogHandler) Delete(c *gin.Context) {
	var req deleteProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `"id" must be a number`})
		return
	}

	remaining, err := h.svc.Delete(c.Request.Context(), *req.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Product id=%d deleted.", *req.ID),
		"products": remaining,
	})
}
