package ledger

import (
	"context"
	"testing"
	"time"

	"katha-pos/internal/database"
	"katha-pos/internal/models"

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

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func addTxn(t *testing.T, db *gorm.DB, id string, date time.Time, customerID, total string, items ...models.TransactionItem) {
	t.Helper()
	require.NoError(t, db.Create(&models.Transaction{
		ID:            id,
		Date:          date,
		CustomerID:    customerID,
		PaymentMethod: models.PaymentCash,
		Subtotal:      dec(total),
		Total:         dec(total),
		AmountPaid:    dec(total),
		Items:         items,
	}).Error)
}

func TestDailyRevenueBucketsByStoreCalendarDay(t *testing.T) {
	db := testDB(t)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc := New(db, loc)

	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	addTxn(t, db, "txn-a", midnight.Add(10*time.Hour), "", "100")
	// 00:15 store time is still the previous day in UTC; bucketing on
	// the UTC date (or a string prefix of it) would misplace this one.
	addTxn(t, db, "txn-b", midnight.Add(15*time.Minute), "", "47")
	addTxn(t, db, "txn-c", midnight.Add(-2*time.Hour), "", "60")
	// Outside the window entirely.
	addTxn(t, db, "txn-old", midnight.AddDate(0, 0, -10), "", "999")

	series, err := svc.DailyRevenue(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, midnight.AddDate(0, 0, -6).Format("2006-01-02"), series[0].Date, "oldest day first")
	assert.Equal(t, midnight.Format("2006-01-02"), series[6].Date)

	assert.True(t, series[6].Revenue.Equal(dec("147")), "today = %s", series[6].Revenue)
	assert.True(t, series[5].Revenue.Equal(dec("60")), "yesterday = %s", series[5].Revenue)
	for i := 0; i < 5; i++ {
		assert.True(t, series[i].Revenue.Equal(decimal.Zero), "day %d should be zero-filled", i)
	}
}

func TestTotalOutstandingDebt(t *testing.T) {
	db := testDB(t)
	svc := New(db, time.UTC)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Customer{ID: "c1", Name: "Ramesh", Debt: dec("47")}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: "c2", Name: "Sita", Debt: dec("12.50")}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: "c3", Name: "Anil", Debt: decimal.Zero}).Error)

	total, err := svc.TotalOutstandingDebt(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("59.50")), "total = %s", total)

	// Idempotent: same answer without intervening writes.
	again, err := svc.TotalOutstandingDebt(ctx)
	require.NoError(t, err)
	assert.True(t, again.Equal(total))
}

func TestTotalOutstandingDebtEmptyStore(t *testing.T) {
	db := testDB(t)
	svc := New(db, time.UTC)

	total, err := svc.TotalOutstandingDebt(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.Zero))
}

func TestTransactionsForCustomerNewestFirst(t *testing.T) {
	db := testDB(t)
	svc := New(db, time.UTC)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	addTxn(t, db, "txn-1", base, "c1", "40",
		models.TransactionItem{ProductID: "p1", Name: "Rice 1kg", Quantity: 1, PriceAtSale: dec("40")})
	addTxn(t, db, "txn-2", base.Add(48*time.Hour), "c1", "60",
		models.TransactionItem{ProductID: "p2", Name: "Oil 1L", Quantity: 1, PriceAtSale: dec("60")})
	addTxn(t, db, "txn-other", base.Add(24*time.Hour), "c2", "500")

	txns, err := svc.TransactionsForCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "txn-2", txns[0].ID, "newest first")
	assert.Equal(t, "txn-1", txns[1].ID)
	require.Len(t, txns[1].Items, 1)
	assert.Equal(t, "Rice 1kg", txns[1].Items[0].Name)
}

func TestSummaryAndTopSelling(t *testing.T) {
	db := testDB(t)
	svc := New(db, time.UTC)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Customer{ID: "c1", Name: "Ramesh", Debt: dec("47")}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: "c2", Name: "Sita", Debt: decimal.Zero}).Error)

	addTxn(t, db, "txn-1", base, "c1", "147",
		models.TransactionItem{ProductID: "p1", Name: "Rice 1kg", Quantity: 2, PriceAtSale: dec("40")},
		models.TransactionItem{ProductID: "p2", Name: "Oil 1L", Quantity: 1, PriceAtSale: dec("60")})
	addTxn(t, db, "txn-2", base.Add(time.Hour), "", "84",
		models.TransactionItem{ProductID: "p1", Name: "Rice 1kg", Quantity: 2, PriceAtSale: dec("40")})

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, sum.TotalRevenue.Equal(dec("231")), "revenue = %s", sum.TotalRevenue)
	assert.EqualValues(t, 2, sum.TransactionCount)
	assert.True(t, sum.OutstandingDebt.Equal(dec("47")))
	assert.EqualValues(t, 1, sum.DebtorCount)

	top, err := svc.TopSelling(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "Rice 1kg", top[0].ProductName)
	assert.Equal(t, 4, top[0].Sold)
	assert.True(t, top[0].Revenue.Equal(dec("160")))
}
