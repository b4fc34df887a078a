package admin

import (
	"errors"

	handlershared "github.com/ambava-store/internal/http/handlers/shared"
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

type errorRule struct {
	target error
	code   int
	key    string
}

var orderStatusErrorRules = []errorRule{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
	{target: service.ErrOrderAlreadyShipped, code: response.CodeBadRequest, key: "error.order_already_shipped"},
	{target: service.ErrOrderCannotCancel, code: response.CodeBadRequest, key: "error.order_cannot_cancel"},
}

var returnReviewErrorRules = []errorRule{
	{target: service.ErrReturnNotFound, code: response.CodeNotFound, key: "error.return_not_found"},
	{target: service.ErrReturnStatusInvalid, code: response.CodeBadRequest, key: "error.return_status_invalid"},
}

func respondWithRules(c *gin.Context, err error, rules []errorRule) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		handlershared.RespondValidationError(c, verr)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.internal", err)
}
