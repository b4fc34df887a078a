package public

import (
	"strings"

	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page := queryPage(c)
	orders, total, err := h.OrderService.ListByUser(userID, page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, service.OrderHistoryPageSize, total))
}

// TrackOrder 按订单号查询物流进度
func (h *Handler) TrackOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	number := strings.TrimSpace(c.Query("order_number"))
	if number == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.Track(userID, number)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// CancelOrder 顾客取消订单，已发货订单不可取消
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)
	order, err := h.OrderService.CancelOrder(c.Request.Context(), userID, orderID, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(orderErrorRules, []mappedHandlerError{
			{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_cannot_cancel"},
		}), response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.order_cancelled", order.OrderNumber), order)
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
