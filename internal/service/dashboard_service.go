package service

import (
	"context"
	"time"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/shopspring/decimal"
)

type StockLevel string

const (
	StockLow      StockLevel = "bajo"
	StockCritical StockLevel = "critico"
)

type LowStockAlert struct {
	Item  model.ItemSummary `json:"item"`
	Level StockLevel        `json:"level"`
}

type DashboardStats struct {
	TotalProducts      int64           `json:"total_products"`
	TotalSubProducts   int64           `json:"total_subproducts"`
	LowStockCount      int             `json:"low_stock_count"`
	CriticalStockCount int             `json:"critical_stock_count"`
	OpenOrders         int64           `json:"open_orders"`
	TotalValuation     decimal.Decimal `json:"total_valuation"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.DailyMovement, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetLowStock(ctx context.Context) ([]LowStockAlert, error)
}

type dashboardService struct {
	itemRepo       repository.ItemRepository
	productRepo    repository.ProductRepository
	subProductRepo repository.SubProductRepository
	movementRepo   repository.MovementRepository
	orderRepo      repository.OrderRepository
	limits         config.StockConfig
}

func NewDashboardService(itemRepo repository.ItemRepository, productRepo repository.ProductRepository, subProductRepo repository.SubProductRepository, movementRepo repository.MovementRepository, orderRepo repository.OrderRepository, limits config.StockConfig) DashboardService {
	return &dashboardService{
		itemRepo:       itemRepo,
		productRepo:    productRepo,
		subProductRepo: subProductRepo,
		movementRepo:   movementRepo,
		orderRepo:      orderRepo,
		limits:         limits,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.DailyMovement, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.GetDailyMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetLowStock(ctx context.Context) ([]LowStockAlert, error) {
	items, err := s.itemRepo.LowStock(ctx, s.limits.LowLimit)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, 0, len(items))
	for _, it := range items {
		level := StockLow
		if it.Stock <= s.limits.CriticalLimit {
			level = StockCritical
		}
		alerts = append(alerts, LowStockAlert{Item: it, Level: level})
	}
	return alerts, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSubProducts, err = s.subProductRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.OpenOrders, err = s.orderRepo.CountByStatus(ctx, model.OrderInProgress); err != nil {
		return nil, err
	}
	if stats.TotalValuation, err = s.itemRepo.Valuation(ctx); err != nil {
		return nil, err
	}

	alerts, err := s.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(alerts)
	for _, a := range alerts {
		if a.Level == StockCritical {
			stats.CriticalStockCount++
		}
	}
	return &stats, nil
}
