package services

import (
	"time"

	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService holds the read-only aggregate projections used by the
// dashboard, the billing page and the superuser overview.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type MonthRevenue struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

type BillingSummary struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	FinishedOrders    int64           `json:"finishedOrders"`
	PendingReceivable decimal.Decimal `json:"pendingReceivable"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type ShopStats struct {
	ShopID    uuid.UUID       `json:"shopId"`
	Name      string          `json:"name"`
	IsActive  bool            `json:"isActive"`
	Customers int64           `json:"customers"`
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type PlatformOverview struct {
	TotalShops    int64           `json:"totalShops"`
	ActiveShops   int64           `json:"activeShops"`
	InactiveShops int64           `json:"inactiveShops"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	MonthOrders   int64           `json:"monthOrders"`
	Shops         []ShopStats     `json:"shops"`
}

// MonthlyRevenue sums paid payments of the shop's orders whose payment
// date falls inside the given month.
func (s *ReportService) MonthlyRevenue(shopID uuid.UUID, month time.Month, year int) (decimal.Decimal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return s.paidRevenue(shopID, start, start.AddDate(0, 1, 0))
}

// OpenOrderCount counts orders still in one of the three open states.
func (s *ReportService) OpenOrderCount(shopID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.ServiceOrder{}).
		Where("shop_id = ? AND status IN ?", shopID, models.OpenOrderStatuses).
		Count(&count).Error
	return count, err
}

// OverdueOrderCount counts open orders whose expected delivery has passed.
func (s *ReportService) OverdueOrderCount(shopID uuid.UUID) (int64, error) {
	today := utils.BeginningOfDay(time.Now())
	var count int64
	err := s.db.Model(&models.ServiceOrder{}).
		Where("shop_id = ? AND expected_delivery < ? AND status IN ?",
			shopID, today, models.OpenOrderStatuses).
		Count(&count).Error
	return count, err
}

// ActiveCustomerCount counts the shop's active customers.
func (s *ReportService) ActiveCustomerCount(shopID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Customer{}).
		Where("shop_id = ? AND is_active = ?", shopID, true).
		Count(&count).Error
	return count, err
}

// RevenueSeries returns paid revenue for the trailing n months. Months are
// derived by stepping back 30*i days from today, not by true month
// arithmetic.
func (s *ReportService) RevenueSeries(shopID uuid.UUID, n int) ([]MonthRevenue, error) {
	today := time.Now()
	series := make([]MonthRevenue, 0, n)

	for i := n - 1; i >= 0; i-- {
		ref := today.AddDate(0, 0, -30*i)
		start, end := utils.MonthRange(ref)
		total, err := s.paidRevenue(shopID, start, end)
		if err != nil {
			return nil, err
		}
		series = append(series, MonthRevenue{
			Month: ref.Format("Jan"),
			Value: total,
		})
	}

	return series, nil
}

// Billing aggregates the billing page numbers. The revenue and receivable
// sums honor the optional payment-date window; the finished-order count
// does not, so the average order value is total revenue over all finished
// orders and zero when there are none.
func (s *ReportService) Billing(shopID uuid.UUID, from, to *time.Time) (BillingSummary, error) {
	var summary BillingSummary

	revenue := s.db.Model(&models.Payment{}).
		Joins("JOIN service_orders ON service_orders.id = payments.order_id").
		Where("service_orders.shop_id = ? AND payments.status = ?", shopID, models.PaymentStatusPaid)
	receivable := s.db.Model(&models.Payment{}).
		Joins("JOIN service_orders ON service_orders.id = payments.order_id").
		Where("service_orders.shop_id = ? AND payments.status = ?", shopID, models.PaymentStatusPending)
	if from != nil {
		revenue = revenue.Where("payments.payment_date >= ?", *from)
		receivable = receivable.Where("payments.payment_date >= ?", *from)
	}
	if to != nil {
		revenue = revenue.Where("payments.payment_date <= ?", *to)
		receivable = receivable.Where("payments.payment_date <= ?", *to)
	}

	if err := revenue.Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&summary.TotalRevenue).Error; err != nil {
		return summary, err
	}
	if err := receivable.Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&summary.PendingReceivable).Error; err != nil {
		return summary, err
	}

	if err := s.db.Model(&models.ServiceOrder{}).
		Where("shop_id = ? AND status IN ?", shopID,
			[]string{models.OrderStatusCompleted, models.OrderStatusDelivered}).
		Count(&summary.FinishedOrders).Error; err != nil {
		return summary, err
	}

	if summary.FinishedOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(summary.FinishedOrders)).Round(2)
	} else {
		summary.AverageOrderValue = decimal.Zero
	}

	return summary, nil
}

// RecentOrders returns the shop's latest orders by entry date.
func (s *ReportService) RecentOrders(shopID uuid.UUID, limit int) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	err := s.db.Preload("Customer").Preload("Vehicle").
		Where("shop_id = ?", shopID).
		Order("entry_date DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// Platform gathers the superuser overview across all shops.
func (s *ReportService) Platform() (PlatformOverview, error) {
	var overview PlatformOverview

	if err := s.db.Model(&models.Shop{}).Count(&overview.TotalShops).Error; err != nil {
		return overview, err
	}
	if err := s.db.Model(&models.Shop{}).Where("is_active = ?", true).
		Count(&overview.ActiveShops).Error; err != nil {
		return overview, err
	}
	overview.InactiveShops = overview.TotalShops - overview.ActiveShops

	if err := s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&overview.TotalRevenue).Error; err != nil {
		return overview, err
	}

	start, end := utils.MonthRange(time.Now())
	if err := s.db.Model(&models.ServiceOrder{}).
		Where("entry_date >= ? AND entry_date < ?", start, end).
		Count(&overview.MonthOrders).Error; err != nil {
		return overview, err
	}

	var shops []models.Shop
	if err := s.db.Order("is_active DESC, created_at DESC").Find(&shops).Error; err != nil {
		return overview, err
	}
	for _, shop := range shops {
		stats := ShopStats{ShopID: shop.ID, Name: shop.Name, IsActive: shop.IsActive}

		if err := s.db.Model(&models.Customer{}).
			Where("shop_id = ?", shop.ID).Count(&stats.Customers).Error; err != nil {
			return overview, err
		}
		if err := s.db.Model(&models.ServiceOrder{}).
			Where("shop_id = ?", shop.ID).Count(&stats.Orders).Error; err != nil {
			return overview, err
		}
		if err := s.db.Model(&models.Payment{}).
			Joins("JOIN service_orders ON service_orders.id = payments.order_id").
			Where("service_orders.shop_id = ? AND payments.status = ?", shop.ID, models.PaymentStatusPaid).
			Select("COALESCE(SUM(payments.amount), 0)").
			Scan(&stats.Revenue).Error; err != nil {
			return overview, err
		}

		overview.Shops = append(overview.Shops, stats)
	}

	return overview, nil
}

func (s *ReportService) paidRevenue(shopID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.Model(&models.Payment{}).
		Joins("JOIN service_orders ON service_orders.id = payments.order_id").
		Where("service_orders.shop_id = ? AND payments.status = ?", shopID, models.PaymentStatusPaid).
		Where("payments.payment_date >= ? AND payments.payment_date < ?", start, end).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&total).Error
	return total, err
}
