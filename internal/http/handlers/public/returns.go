package public

import (
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

// ListReturns 我的退换货申请
func (h *Handler) ListReturns(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page := queryPage(c)
	requests, total, err := h.ReturnService.ListByUser(userID, page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, requests, buildPagination(page, service.ReturnPageSize, total))
}

// CreateReturn 发起退货或换货
func (h *Handler) CreateReturn(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req service.ReturnInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	request, err := h.ReturnService.Create(userID, req)
	if err != nil {
		respondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	typeLabel := i18n.T(locale, "return.type."+request.RequestType)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.return_submitted", typeLabel), request)
}
