package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - The person operating a terminal (or logging in as a customer)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff', 'customer'
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory
type Product struct {
	ID       string          `gorm:"primaryKey;size:40" json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"image_url"`
}

// Customer - carries the running 'katha' balance.
// Debt is only ever written by the settlement service or the explicit
// admin override endpoint, never by catalog CRUD.
type Customer struct {
	ID        string          `gorm:"primaryKey;size:40" json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Debt      decimal.Decimal `gorm:"type:decimal(10,2)" json:"debt"`
	LastVisit time.Time       `json:"last_visit"`
}

// PaymentMethod is how a sale was paid for. "split" is derived, not
// user input: a partial immediate payment with the rest going to debt.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
	PaymentCredit PaymentMethod = "credit"
	PaymentSplit  PaymentMethod = "split"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentOnline, PaymentCredit, PaymentSplit:
		return true
	}
	return false
}

// Transaction - The permanent ledger entry. Append-only: corrections are
// new transactions, never edits.
type Transaction struct {
	ID            string            `gorm:"primaryKey;size:40" json:"id"`
	Date          time.Time         `gorm:"index" json:"date"`
	CustomerID    string            `gorm:"size:40;index" json:"customer_id,omitempty"`
	PaymentMethod PaymentMethod     `gorm:"size:10" json:"payment_method"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(10,2)" json:"subtotal"`
	Tax           decimal.Decimal   `gorm:"type:decimal(10,2)" json:"tax"`
	Discount      decimal.Decimal   `gorm:"type:decimal(10,2)" json:"discount"`
	Total         decimal.Decimal   `gorm:"type:decimal(10,2)" json:"total"`
	AmountPaid    decimal.Decimal   `gorm:"type:decimal(10,2)" json:"amount_paid"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem - one cart line inside a transaction. Name and price
// are snapshotted at sale time so later catalog edits don't rewrite history.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID string          `gorm:"size:40;index" json:"transaction_id"`
	ProductID     string          `gorm:"size:40" json:"product_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	PriceAtSale   decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_sale"`
}
