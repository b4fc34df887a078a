package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	Keyword       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ReturnListFilter 查询退换货列表的过滤条件
type ReturnListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	OnlyActive bool
}
