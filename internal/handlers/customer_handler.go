package handlers

import (
	"errors"
	"net/http"
	"time"

	"katha-pos/internal/models"
	"katha-pos/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetCustomers lists all customers with their katha balances.
func (h *Handler) GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := h.db.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

type addCustomerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// AddCustomer creates a customer with a zero debt balance.
func (h *Handler) AddCustomer(c *gin.Context) {
	var req addCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.ID == "" {
		req.ID = "c-" + uuid.NewString()
	}

	customer := models.Customer{
		ID:        req.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		Debt:      decimal.Zero,
		LastVisit: time.Now(),
	}
	if err := h.db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// DeleteCustomer removes a customer record.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := h.db.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

type debtOverrideRequest struct {
	Debt decimal.Decimal `json:"debt"`
}

// SetCustomerDebt is the manual katha settlement path: an admin sets
// the accumulator directly, bypassing checkout entirely.
func (h *Handler) SetCustomerDebt(c *gin.Context) {
	var req debtOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := h.settlement.SetCustomerDebt(c.Request.Context(), c.Param("id"), req.Debt)
	if err != nil {
		var nf *settlement.NotFoundError
		switch {
		case errors.As(err, &nf):
			c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		case errors.Is(err, settlement.ErrNegativeDebt):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

// GetCustomerTransactions returns one customer's purchase history,
// newest first.
func (h *Handler) GetCustomerTransactions(c *gin.Context) {
	txns, err := h.ledger.TransactionsForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, txns)
}
