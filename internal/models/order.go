package models

import "time"

// Order 订单表，金额在创建时固化，不随订单项重算
type Order struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                                 // 主键
	OrderNumber        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`            // 订单编号 HOA-XXXXXXXX
	UserID             uint       `gorm:"index;not null" json:"-"`                                              // 用户ID
	Status             string     `gorm:"type:varchar(20);index;not null" json:"status"`                        // 订单状态
	PaymentStatus      string     `gorm:"type:varchar(20);index;not null" json:"payment_status"`                // 支付状态
	PaymentMethod      string     `gorm:"type:varchar(20);not null" json:"payment_method"`                      // 支付方式
	RazorpayOrderID    string     `gorm:"type:varchar(100);index;not null;default:''" json:"razorpay_order_id"` // 网关订单号
	RazorpayPaymentID  string     `gorm:"type:varchar(100);not null;default:''" json:"razorpay_payment_id"`     // 网关支付号
	RazorpaySignature  string     `gorm:"type:varchar(255);not null;default:''" json:"-"`                       // 网关签名
	ShippingFullName   string     `gorm:"type:varchar(100);not null" json:"shipping_full_name"`                 // 收货人
	ShippingPhone      string     `gorm:"type:varchar(20);not null" json:"shipping_phone"`                      // 收货电话
	ShippingAddress    string     `gorm:"type:text;not null" json:"shipping_address"`                           // 收货地址
	ShippingCity       string     `gorm:"type:varchar(100);not null" json:"shipping_city"`                      // 城市
	ShippingState      string     `gorm:"type:varchar(100);not null" json:"shipping_state"`                     // 邦
	ShippingPincode    string     `gorm:"type:varchar(10);not null" json:"shipping_pincode"`                    // 邮编
	ContactEmail       string     `gorm:"type:varchar(254);not null;default:''" json:"contact_email"`           // 联系邮箱
	TrackingNumber     string     `gorm:"type:varchar(100);not null;default:''" json:"tracking_number"`         // 运单号
	CourierName        string     `gorm:"type:varchar(100);not null;default:''" json:"courier_name"`            // 快递公司
	EstimatedDelivery  *time.Time `json:"estimated_delivery"`                                                   // 预计送达
	DeliveredAt        *time.Time `json:"delivered_at"`                                                         // 送达时间
	Notes              string     `gorm:"type:text" json:"notes"`                                               // 备注
	CouponCode         string     `gorm:"type:varchar(50);not null;default:''" json:"coupon_code"`              // 优惠码
	Subtotal           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`                // 商品小计
	ShippingCharge     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_charge"`         // 运费
	DiscountAmount     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`         // 优惠金额
	Total              Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`                   // 实付金额
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason"`                                 // 取消原因
	CancelledAt        *time.Time `gorm:"index" json:"cancelled_at"`                                            // 取消时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                           // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsCOD 是否货到付款
func (o *Order) IsCOD() bool {
	return o.PaymentMethod == "cod"
}
