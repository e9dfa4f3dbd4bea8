// Package settlement commits a checkout as one atomic unit: the
// transaction record and its items, the stock decrements and the
// customer debt update either all land or none do.
package settlement

import (
	"context"
	"errors"
	"time"

	"katha-pos/internal/models"
	"katha-pos/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Line is one requested cart row. Prices are not taken from the client;
// they are snapshotted from the locked product row at settle time.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Request is everything the cashier submits for one checkout.
type Request struct {
	Items         []Line
	CustomerID    string // optional; required when a shortfall would create debt
	PaymentMethod models.PaymentMethod
	AmountPaid    decimal.Decimal
	Discount      pricing.Discount
}

// Service executes checkouts against a transactional store.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// lockTx takes a FOR UPDATE row lock where the dialect supports it.
// sqlite rejects the syntax and serializes writers itself.
func lockTx(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Settle validates and commits a checkout, returning the persisted
// transaction. Any failure rolls the whole unit back; concurrent
// settlements against the same products or customer serialize on their
// row locks.
func (s *Service) Settle(ctx context.Context, req Request) (*models.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, pricing.ErrEmptyCart
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, pricing.ErrInvalidQuantity
		}
	}
	if req.AmountPaid.IsNegative() {
		return nil, ErrNegativePayment
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	// Merge duplicate lines for the same product so the stock check
	// sees the cart's aggregate demand, not each line in isolation.
	items := make([]Line, 0, len(req.Items))
	index := make(map[string]int, len(req.Items))
	for _, it := range req.Items {
		if i, ok := index[it.ProductID]; ok {
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(items)
		items = append(items, it)
	}

	var txn *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock and validate every product before touching anything,
		// so validation failures reject with zero mutations.
		lines := make([]pricing.Line, len(items))
		for i, it := range items {
			var p models.Product
			if err := lockTx(tx).First(&p, "id = ?", it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Kind: "product", ID: it.ProductID}
				}
				return err
			}
			if p.Stock < it.Quantity {
				return &InsufficientStockError{
					ProductID: p.ID,
					Name:      p.Name,
					Requested: it.Quantity,
					Available: p.Stock,
				}
			}
			lines[i] = pricing.Line{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.Price,
				Quantity:  it.Quantity,
			}
		}

		quote, err := pricing.Price(lines, req.Discount)
		if err != nil {
			return err
		}

		if req.CustomerID != "" {
			var count int64
			if err := tx.Model(&models.Customer{}).Where("id = ?", req.CustomerID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return &NotFoundError{Kind: "customer", ID: req.CustomerID}
			}
		}

		// Overpayment is change handed back, never store credit.
		paid := req.AmountPaid
		if paid.GreaterThan(quote.Total) {
			paid = quote.Total
		}
		shortfall := quote.Total.Sub(paid)

		if shortfall.IsPositive() && req.CustomerID == "" {
			return ErrAnonymousDebt
		}

		// A partial immediate payment is a split sale regardless of
		// what the cashier picked.
		method := req.PaymentMethod
		if shortfall.IsPositive() && paid.IsPositive() {
			method = models.PaymentSplit
		}

		for _, it := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}

		now := time.Now()
		txnItems := make([]models.TransactionItem, len(lines))
		for i, l := range lines {
			txnItems[i] = models.TransactionItem{
				ProductID:   l.ProductID,
				Name:        l.Name,
				Quantity:    l.Quantity,
				PriceAtSale: l.UnitPrice,
			}
		}
		txn = &models.Transaction{
			ID:            "txn-" + uuid.NewString(),
			Date:          now,
			CustomerID:    req.CustomerID,
			PaymentMethod: method,
			Subtotal:      quote.Subtotal,
			Tax:           quote.Tax,
			Discount:      quote.Discount,
			Total:         quote.Total,
			AmountPaid:    paid,
			Items:         txnItems,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if req.CustomerID != "" {
			updates := map[string]interface{}{"last_visit": now}
			if shortfall.IsPositive() {
				updates["debt"] = gorm.Expr("debt + ?", shortfall)
			}
			if err := tx.Model(&models.Customer{}).Where("id = ?", req.CustomerID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// SetCustomerDebt is the admin override: it sets the accumulator
// directly, bypassing checkout. Used for manual katha settlement.
func (s *Service) SetCustomerDebt(ctx context.Context, customerID string, debt decimal.Decimal) error {
	if debt.IsNegative() {
		return ErrNegativeDebt
	}
	res := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("debt", debt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "customer", ID: customerID}
	}
	return nil
}
