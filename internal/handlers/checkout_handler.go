package handlers

import (
	"errors"
	"net/http"

	"katha-pos/internal/models"
	"katha-pos/internal/pricing"
	"katha-pos/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutRequest defines what the frontend sends us. Client-side
// totals are ignored; the server reprices the cart from locked rows.
type CheckoutRequest struct {
	Items         []settlement.Line `json:"items" binding:"required"`
	CustomerID    string            `json:"customer_id"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	DiscountType  string            `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
}

// Checkout runs the atomic settlement. A failure here leaves nothing
// behind, so the client can retry with the cart intact.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	discountType := pricing.DiscountType(req.DiscountType)
	if req.DiscountType == "" {
		discountType = pricing.DiscountFixed
	}

	txn, err := h.settlement.Settle(c.Request.Context(), settlement.Request{
		Items:         req.Items,
		CustomerID:    req.CustomerID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
		Discount:      pricing.Discount{Type: discountType, Value: req.DiscountValue},
	})
	if err != nil {
		status := checkoutStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "Checkout failed, please retry"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Checkout successful",
		"transaction_id": txn.ID,
		"payment_method": txn.PaymentMethod,
		"subtotal":       txn.Subtotal,
		"tax":            txn.Tax,
		"discount":       txn.Discount,
		"total":          txn.Total,
		"amount_paid":    txn.AmountPaid,
	})
}

// checkoutStatus maps settlement failures onto the error taxonomy:
// 400 validation, 404 missing reference, 409 conflict, 500 retryable.
func checkoutStatus(err error) int {
	var nf *settlement.NotFoundError
	var stockErr *settlement.InsufficientStockError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &stockErr):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrEmptyCart),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrNegativePrice),
		errors.Is(err, pricing.ErrUnknownDiscountType),
		errors.Is(err, settlement.ErrNegativePayment),
		errors.Is(err, settlement.ErrInvalidPaymentMethod),
		errors.Is(err, settlement.ErrAnonymousDebt):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
