package public

import (
	"errors"

	handlershared "github.com/ambava-store/internal/http/handlers/shared"
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// respondWithMappedError 校验错误按字段返回，其余按规则映射，未命中时记录原始错误。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
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
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var otpErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPhone, code: response.CodeBadRequest, key: "error.invalid_phone"},
	{target: service.ErrOTPRateLimited, code: response.CodeTooManyRequests, key: "error.otp_rate_limited"},
	{target: service.ErrOTPInvalidOrExpired, code: response.CodeBadRequest, key: "error.otp_invalid"},
	{target: service.ErrAdminLoginForbidden, code: response.CodeForbidden, key: "error.admin_login_forbidden"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
	{target: service.ErrAdminLoginForbidden, code: response.CodeForbidden, key: "error.admin_login_forbidden"},
}

var oauthErrorRules = []mappedHandlerError{
	{target: service.ErrOAuthProviderUnsupported, code: response.CodeNotFound, key: "error.oauth_unsupported"},
	{target: service.ErrOAuthStateInvalid, code: response.CodeBadRequest, key: "error.oauth_state_invalid"},
	{target: service.ErrAdminLoginForbidden, code: response.CodeForbidden, key: "error.admin_login_forbidden"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
}

var passwordResetErrorRules = []mappedHandlerError{
	{target: service.ErrPasswordResetTooFrequent, code: response.CodeTooManyRequests, key: "error.reset_too_frequent"},
	{target: service.ErrResetLinkInvalid, code: response.CodeBadRequest, key: "error.reset_link_invalid"},
	{target: service.ErrResetTokenInvalid, code: response.CodeBadRequest, key: "error.reset_link_expired"},
	{target: service.ErrResetEmailFailed, code: response.CodeInternal, key: "error.email_send_failed"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, key: "error.email_send_failed"},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, key: "error.coupon_not_started"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, key: "error.coupon_usage_limit"},
	{target: service.ErrCouponPerUserLimit, code: response.CodeBadRequest, key: "error.coupon_per_user_limit"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, key: "error.coupon_min_amount"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeInternal, key: "error.payment_gateway"},
}

var paymentVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentDetailsMissing, code: response.CodeBadRequest, key: "error.payment_details_missing"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentSignatureInvalid, code: response.CodeBadRequest, key: "error.payment_verify_failed"},
	{target: service.ErrPaymentNotPending, code: response.CodeBadRequest, key: "error.payment_verify_failed"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeInternal, key: "error.payment_gateway"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderAlreadyShipped, code: response.CodeBadRequest, key: "error.order_already_shipped"},
	{target: service.ErrOrderCannotCancel, code: response.CodeBadRequest, key: "error.order_cannot_cancel"},
}

var returnErrorRules = []mappedHandlerError{
	{target: service.ErrReturnNotAllowed, code: response.CodeBadRequest, key: "error.return_not_eligible"},
	{target: service.ErrReturnExists, code: response.CodeBadRequest, key: "error.return_exists"},
	{target: service.ErrReturnItemInvalid, code: response.CodeBadRequest, key: "error.return_item_invalid"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_missing"},
	{target: service.ErrReviewNotVerified, code: response.CodeForbidden, key: "error.review_not_verified"},
	{target: service.ErrReviewRateLimited, code: response.CodeTooManyRequests, key: "error.review_rate_limited"},
}

var wishlistErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_missing"},
}
