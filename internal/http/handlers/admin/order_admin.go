package admin

import (
	"strings"

	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderDetail 员工端订单详情返回
type AdminOrderDetail struct {
	models.Order
	UserID          uint   `json:"user_id"`
	UserEmail       string `json:"user_email,omitempty"`
	UserDisplayName string `json:"user_display_name,omitempty"`
}

// AdminListOrders 员工端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListForStaff(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        parseUintQuery(c, "user_id"),
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		Keyword:       strings.TrimSpace(c.Query("keyword")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]AdminOrderDetail, 0, len(orders))
	for _, order := range orders {
		items = append(items, AdminOrderDetail{Order: order, UserID: order.UserID})
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// AdminGetOrder 员工端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetForStaff(orderID)
	if err != nil {
		respondWithRules(c, err, orderStatusErrorRules)
		return
	}
	response.Success(c, h.buildOrderDetail(c, order))
}

// AdminUpdateOrderStatus 更新订单状态，附带物流信息
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.StatusUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}

	order, err := h.OrderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		respondWithRules(c, err, orderStatusErrorRules)
		return
	}
	requestLog(c).Infow("staff_order_status_updated",
		"staff_id", staffID,
		"order_number", order.OrderNumber,
		"status", order.Status,
	)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.order_status_updated"), h.buildOrderDetail(c, order))
}

func (h *Handler) buildOrderDetail(c *gin.Context, order *models.Order) AdminOrderDetail {
	detail := AdminOrderDetail{Order: *order, UserID: order.UserID}
	user, err := h.UserRepo.GetByID(order.UserID)
	if err != nil {
		requestLog(c).Warnw("staff_order_user_lookup_failed", "order_id", order.ID, "error", err)
		return detail
	}
	if user != nil {
		detail.UserEmail = user.Email
		detail.UserDisplayName = user.FullName()
		if detail.UserDisplayName == "" {
			detail.UserDisplayName = user.Username
		}
	}
	return detail
}
