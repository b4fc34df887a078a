package admin

import (
	"strings"

	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/repository"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListReturns 退换货申请列表
func (h *Handler) AdminListReturns(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	requests, total, err := h.ReturnService.ListForStaff(repository.ReturnListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   parseUintQuery(c, "user_id"),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, requests, buildPagination(page, pageSize, total))
}

// AdminReviewReturn 审核退换货：推进状态、记录退款金额与备注
func (h *Handler) AdminReviewReturn(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ReturnReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.return_status_invalid", nil)
		return
	}
	request, err := h.ReturnService.Review(returnID, req)
	if err != nil {
		respondWithRules(c, err, returnReviewErrorRules)
		return
	}
	requestLog(c).Infow("staff_return_reviewed",
		"staff_id", staffID,
		"return_id", request.ID,
		"status", request.Status,
	)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.return_updated"), request)
}
