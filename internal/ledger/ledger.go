// Package ledger is the read side: aggregations over the append-only
// transaction ledger and the customer debt accumulators. No writes.
package ledger

import (
	"context"
	"time"

	"katha-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service answers reporting queries. All methods reflect the latest
// committed state; repeated calls without intervening writes return the
// same values.
type Service struct {
	db  *gorm.DB
	loc *time.Location
}

// New builds a ledger service. loc is the single agreed store timezone
// used for calendar-day bucketing.
func New(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{db: db, loc: loc}
}

// DayRevenue is one bar of the revenue chart.
type DayRevenue struct {
	Date    string          `json:"date"` // YYYY-MM-DD in the store timezone
	Day     string          `json:"day"`  // short weekday label
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyRevenue sums transaction totals per calendar day over the last
// `days` days, oldest to newest, zero-filling days without sales.
// Bucketing is done on the timestamp in the store timezone, not on a
// string prefix of the stored date.
func (s *Service) DailyRevenue(ctx context.Context, days int) ([]DayRevenue, error) {
	if days < 1 {
		days = 1
	}

	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).
		AddDate(0, 0, -(days - 1))

	var txns []models.Transaction
	if err := s.db.WithContext(ctx).Where("date >= ?", start).Find(&txns).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]decimal.Decimal, days)
	for _, t := range txns {
		key := t.Date.In(s.loc).Format("2006-01-02")
		buckets[key] = buckets[key].Add(t.Total)
	}

	out := make([]DayRevenue, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		total, ok := buckets[key]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, DayRevenue{Date: key, Day: d.Format("Mon"), Revenue: total})
	}
	return out, nil
}

// TotalOutstandingDebt sums every customer's katha balance.
func (s *Service) TotalOutstandingDebt(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Select("COALESCE(SUM(debt), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// TransactionsForCustomer returns the customer's full history, newest
// first, with line items attached.
func (s *Service) TransactionsForCustomer(ctx context.Context, customerID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("date desc").
		Find(&txns).Error
	return txns, err
}

// RecentTransactions returns the latest sales for the dashboard feed.
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("date desc").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// TopSeller is one row of the best-sellers table.
type TopSeller struct {
	ProductName string          `json:"product_name"`
	Sold        int             `json:"sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopSelling ranks products by units sold across the whole ledger.
func (s *Service) TopSelling(ctx context.Context, limit int) ([]TopSeller, error) {
	var top []TopSeller
	err := s.db.WithContext(ctx).Table("transaction_items").
		Select("name as product_name, SUM(quantity) as sold, SUM(quantity * price_at_sale) as revenue").
		Group("name").
		Order("sold desc").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// Summary holds the aggregate numbers the dashboard and the insights
// summarizer consume. No per-customer rows, no PII.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TransactionCount int64           `json:"total_transactions"`
	OutstandingDebt  decimal.Decimal `json:"outstanding_debt"`
	DebtorCount      int64           `json:"debtor_count"`
}

// Summary computes all-time revenue, transaction count and the debt
// picture in one call.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary

	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Count(&sum.TransactionCount).Error; err != nil {
		return nil, err
	}

	sum.OutstandingDebt, err = s.TotalOutstandingDebt(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("debt > 0").
		Count(&sum.DebtorCount).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
