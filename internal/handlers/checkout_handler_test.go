package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"katha-pos/internal/config"
	"katha-pos/internal/database"
	"katha-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	require.NoError(t, db.Create(&models.Product{
		ID: "p1", Name: "Rice 1kg", Category: "Grocery", Price: dec("40"), Stock: 10,
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		ID: "p2", Name: "Oil 1L", Category: "Grocery", Price: dec("60"), Stock: 5,
	}).Error)
	require.NoError(t, db.Create(&models.Customer{
		ID: "c1", Name: "Ramesh", Phone: "9800000001", Debt: decimal.Zero, LastVisit: time.Now(),
	}).Error)

	h := New(config.Config{StoreTimezone: "UTC"}, db)

	// Routes under test, without the auth middleware in the way.
	r := gin.New()
	r.POST("/api/checkout", h.Checkout)
	r.PUT("/api/customers/:id/debt", h.SetCustomerDebt)
	r.GET("/api/customers/:id/transactions", h.GetCustomerTransactions)
	r.GET("/api/reports", h.GetSalesReport)
	r.PUT("/api/products/:id", h.UpdateProduct)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpoint(t *testing.T) {
	r, db := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkout", gin.H{
		"items":          []gin.H{{"product_id": "p1", "quantity": 2}, {"product_id": "p2", "quantity": 1}},
		"customer_id":    "c1",
		"payment_method": "cash",
		"amount_paid":    "100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		TransactionID string          `json:"transaction_id"`
		PaymentMethod string          `json:"payment_method"`
		Total         decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^txn-`, resp.TransactionID)
	assert.Equal(t, "split", resp.PaymentMethod)
	assert.True(t, resp.Total.Equal(dec("147")))

	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 8, p.Stock)

	var cust models.Customer
	require.NoError(t, db.First(&cust, "id = ?", "c1").Error)
	assert.True(t, cust.Debt.Equal(dec("47")), "debt = %s", cust.Debt)

	// History readable through the query endpoint.
	w = doJSON(t, r, http.MethodGet, "/api/customers/c1/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txns []models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txns))
	require.Len(t, txns, 1)
	assert.Len(t, txns[0].Items, 2)
}

func TestCheckoutAnonymousShortfallRejected(t *testing.T) {
	r, db := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkout", gin.H{
		"items":          []gin.H{{"product_id": "p1", "quantity": 1}},
		"payment_method": "cash",
		"amount_paid":    "10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 10, p.Stock, "rejected checkout must leave stock untouched")
}

func TestCheckoutInsufficientStockConflict(t *testing.T) {
	r, _ := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkout", gin.H{
		"items":          []gin.H{{"product_id": "p2", "quantity": 6}},
		"payment_method": "cash",
		"amount_paid":    "500",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	r, _ := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkout", gin.H{
		"items":          []gin.H{{"product_id": "ghost", "quantity": 1}},
		"payment_method": "cash",
		"amount_paid":    "10",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebtOverrideEndpoint(t *testing.T) {
	r, db := setup(t)

	w := doJSON(t, r, http.MethodPut, "/api/customers/c1/debt", gin.H{"debt": "25"})
	require.Equal(t, http.StatusOK, w.Code)

	var cust models.Customer
	require.NoError(t, db.First(&cust, "id = ?", "c1").Error)
	assert.True(t, cust.Debt.Equal(dec("25")))

	w = doJSON(t, r, http.MethodPut, "/api/customers/ghost/debt", gin.H{"debt": "5"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/customers/c1/debt", gin.H{"debt": "-5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesReportEndpoint(t *testing.T) {
	r, _ := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkout", gin.H{
		"items":          []gin.H{{"product_id": "p1", "quantity": 1}},
		"payment_method": "cash",
		"amount_paid":    "42",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
		TotalTransactions int64           `json:"total_transactions"`
		OutstandingDebt   decimal.Decimal `json:"outstanding_debt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.TotalRevenue.Equal(dec("42")), "revenue = %s", report.TotalRevenue)
	assert.EqualValues(t, 1, report.TotalTransactions)
	assert.True(t, report.OutstandingDebt.Equal(decimal.Zero))
}
