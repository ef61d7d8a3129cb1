package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/model"
)

// ==================== 过滤条件 ====================

// OrderFilter 后台订单筛选
type OrderFilter struct {
	Status        string // orderStatus 精确匹配
	PaymentMethod string
	Email         string // 买家邮箱子串，大小写不敏感
	Page          int
	PageSize      int
}

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口
// 没有 Delete：订单不经由任何入口删除
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, int64, error)
	UpdateStatusFields(ctx context.Context, id int64, fields map[string]interface{}) error
	GetStats(ctx context.Context) (*OrderStats, error)
}

// OrderStats 订单统计
type OrderStats struct {
	TotalOrders      int64
	PendingOrders    int64
	ProcessingOrders int64
	ShippedOrders    int64
	DeliveredOrders  int64
	TotalRevenue     int64
}

// ==================== 仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

// Create 订单与行项目一并写入
func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) paginate(query *gorm.DB, page, pageSize int) ([]model.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var orders []model.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.Status != "" {
		query = query.Where("order_status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Email != "" {
		query = query.Where("LOWER(customer_email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}

	return r.paginate(query, filter.Page, filter.PageSize)
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	return r.paginate(query, page, pageSize)
}

// UpdateStatusFields 管理端独立设置 order_status / payment_status
func (r *orderRepo) UpdateStatusFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) GetStats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{}

	type statusRow struct {
		OrderStatus string
		Count       int64
	}
	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.TotalOrders += row.Count
		switch row.OrderStatus {
		case model.OrderStatusPending:
			stats.PendingOrders = row.Count
		case model.OrderStatusProcessing:
			stats.ProcessingOrders = row.Count
		case model.OrderStatusShipped:
			stats.ShippedOrders = row.Count
		case model.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		}
	}

	var revenue *int64
	err = r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("SUM(total)").
		Where("payment_status = ?", model.PaymentStatusCompleted).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	return stats, nil
}
