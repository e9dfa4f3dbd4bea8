package handlers

import (
	"fmt"
	"net/http"

	"katha-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// toDecimal accepts the two shapes a JSON price can arrive in.
func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %T", raw)
	}
}

// GetProducts lists the whole catalog.
func (h *Handler) GetProducts(c *gin.Context) {
	var products []models.Product
	if err := h.db.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// AddProduct creates a catalog entry. Admin only.
func (h *Handler) AddProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if product.Price.IsNegative() || product.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must not be negative"})
		return
	}
	if product.ID == "" {
		product.ID = "p-" + uuid.NewString()
	}

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update (only the fields that were
// sent). Catalog administration path - checkouts never come through here.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "id")

	// Same floor AddProduct enforces: no negative price or stock via
	// the partial-update path either.
	if raw, ok := updateData["price"]; ok {
		price, err := toDecimal(raw)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a non-negative number"})
			return
		}
	}
	if raw, ok := updateData["stock"]; ok {
		n, isNum := raw.(float64)
		if !isNum || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must be a non-negative number"})
			return
		}
	}

	if err := h.db.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct removes a catalog entry.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		// Usually a foreign key constraint from past sales.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past sales."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
