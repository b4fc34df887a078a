package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// 退换货类型
const (
	ReturnTypeReturn   = "return"
	ReturnTypeExchange = "exchange"
)

// 退换货状态
const (
	ReturnStatusRequested       = "requested"
	ReturnStatusApproved        = "approved"
	ReturnStatusPickupScheduled = "pickup_scheduled"
	ReturnStatusPickedUp        = "picked_up"
	ReturnStatusCompleted       = "completed"
	ReturnStatusRejected        = "rejected"
)

// 退换货原因
const (
	ReturnReasonWrongSize      = "wrong_size"
	ReturnReasonDefective      = "defective"
	ReturnReasonNotAsDescribed = "not_as_described"
	ReturnReasonWrongItem      = "wrong_item"
	ReturnReasonChangeOfMind   = "change_of_mind"
	ReturnReasonOther          = "other"
)

// 地址标签
const (
	AddressLabelHome  = "home"
	AddressLabelWork  = "work"
	AddressLabelOther = "other"
)

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// OAuth 提供方
const (
	OAuthProviderGoogle   = "google"
	OAuthProviderFacebook = "facebook"
)

// 商品分类
const (
	ProductCategoryBridal   = "bridal"
	ProductCategoryDesigner = "designer"
	ProductCategoryFestival = "festival"
	ProductCategoryParty    = "party"
	ProductCategoryCasual   = "casual"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskOrderStatusEmail       = "order:status_email"
)
