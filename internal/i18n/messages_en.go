package i18n

var enMessages = map[string]string{
	"error.bad_request":               "Invalid request.",
	"error.unauthorized":              "Please log in to continue.",
	"error.forbidden":                 "You do not have permission to do that.",
	"error.not_found":                 "Not found.",
	"error.internal":                  "Something went wrong. Please try again.",
	"error.token_invalid":             "Your session is invalid. Please log in again.",
	"error.token_revoked":             "Your session has expired. Please log in again.",
	"error.validation":                "Please correct the highlighted fields.",
	"error.rate_limited":              "Too many requests. Please try again later.",
	"error.rate_limit_unavailable":    "Service is busy. Please try again shortly.",
	"error.invalid_phone":             "Enter a valid 10-digit phone number.",
	"error.otp_rate_limited":          "Please wait 60 seconds before requesting another OTP.",
	"error.otp_invalid":               "Invalid or expired OTP.",
	"error.invalid_credentials":       "Invalid username or password.",
	"error.user_disabled":             "This account has been disabled.",
	"error.admin_login_forbidden":     "Please use the admin panel to sign in.",
	"error.login_rate_limited":        "Too many failed attempts. Try again in %d minutes.",
	"error.oauth_not_configured":      "%s login is not configured.",
	"error.oauth_unsupported":         "Unsupported login provider.",
	"error.oauth_state_invalid":       "Login session expired. Please try again.",
	"error.oauth_failed":              "%s login failed. Please try again.",
	"error.cart_empty":                "Cart is empty.",
	"error.product_not_found":         "Product \"%s\" not found or unavailable.",
	"error.product_missing":           "Product not found.",
	"error.insufficient_stock":        "Insufficient stock: %s",
	"error.coupon_not_found":          "Invalid coupon code.",
	"error.coupon_inactive":           "This coupon is no longer active.",
	"error.coupon_not_started":        "This coupon is not active yet.",
	"error.coupon_expired":            "This coupon has expired.",
	"error.coupon_usage_limit":        "This coupon has reached its usage limit.",
	"error.coupon_per_user_limit":     "You have already used this coupon.",
	"error.coupon_min_amount":         "Minimum order amount not met for this coupon.",
	"error.order_not_found":           "Order not found.",
	"error.order_already_shipped":     "This order has already been shipped and cannot be cancelled online. Please refuse the delivery when the delivery partner arrives at your doorstep to automatically initiate a return.",
	"error.order_cannot_cancel":       "This order cannot be cancelled.",
	"error.order_status_invalid":      "Invalid order status change.",
	"error.payment_gateway":           "Payment gateway error. Please try again or use Cash on Delivery.",
	"error.payment_verify_failed":     "Payment verification failed. Please contact support.",
	"error.payment_details_missing":   "Missing payment details.",
	"error.address_not_found":         "Address not found.",
	"error.return_not_eligible":       "Order not found or not eligible for return.",
	"error.return_exists":             "An active return/exchange request already exists for this order.",
	"error.return_item_invalid":       "The selected item does not belong to this order.",
	"error.return_not_found":          "Return request not found.",
	"error.return_status_invalid":     "Invalid return status change.",
	"error.review_not_verified":       "You can only review products you have purchased.",
	"error.review_rate_limited":       "Too many reviews. Please try again later.",
	"error.reset_too_frequent":        "Please wait before requesting another reset.",
	"error.reset_link_invalid":        "Invalid reset link.",
	"error.reset_link_expired":        "This reset link has expired. Please request a new one.",
	"error.email_send_failed":         "Failed to send email. Please try again later.",
	"error.password_min_length":       "Password must be at least %d characters.",
	"error.password_require_upper":    "Password must contain an uppercase letter.",
	"error.password_require_lower":    "Password must contain a lowercase letter.",
	"error.password_require_number":   "Password must contain a number.",
	"error.password_require_special":  "Password must contain a special character.",
	"error.password_too_weak":         "Password is too easy to guess.",
	"msg.ok":                          "OK",
	"msg.otp_sent":                    "OTP sent to %s",
	"msg.login_welcome":               "Welcome back, %s!",
	"msg.signup_welcome":              "Welcome, %s! Your account has been created.",
	"msg.profile_updated":             "Profile updated successfully!",
	"msg.address_saved":               "Address saved!",
	"msg.address_deleted":             "Address deleted.",
	"msg.order_placed":                "Order placed successfully!",
	"msg.order_cod_fallback":          "Online payment is not configured. Order placed as Cash on Delivery.",
	"msg.razorpay_created":            "Razorpay order created. Complete payment.",
	"msg.payment_success":             "Payment successful! Your order has been confirmed.",
	"msg.payment_not_completed":       "Payment was not completed. You can try again from your orders page.",
	"msg.coupon_applied":              "Coupon applied! You save ₹%s",
	"msg.order_cancelled":             "Order %s has been cancelled successfully.",
	"msg.return_submitted":            "%s request submitted successfully!",
	"msg.return_updated":              "Return request updated.",
	"msg.review_created":              "Review submitted! Thank you.",
	"msg.review_updated":              "Review updated!",
	"msg.wishlist_added":              "Added to wishlist!",
	"msg.wishlist_removed":            "Removed from wishlist.",
	"msg.reset_sent":                  "If this email is registered, a reset link has been sent.",
	"msg.reset_done":                  "Password reset successfully! You can now log in.",
	"msg.order_status_updated":        "Order status updated.",
	"order.status.pending":            "Pending",
	"order.status.confirmed":          "Confirmed",
	"order.status.shipped":            "Shipped",
	"order.status.out_for_delivery":   "Out for Delivery",
	"order.status.delivered":          "Delivered",
	"order.status.cancelled":          "Cancelled",
	"payment.method.cod":              "Cash on Delivery",
	"payment.method.razorpay":         "Razorpay (Online)",
	"return.type.return":              "Return",
	"return.type.exchange":            "Exchange",
	"email.order_confirmed.subject":   "Order Confirmed — #%s | %s",
	"email.order_status.subject":      "Order #%s — %s | %s",
	"email.order_status.confirmed":    "Your order has been confirmed and is being prepared.",
	"email.order_status.shipped":      "Your order has been shipped! Tracking: %s",
	"email.order_status.tracking_tbd": "Will be updated soon",
	"email.order_status.out":          "Your order is out for delivery. It should arrive today!",
	"email.order_status.delivered":    "Your order has been delivered. We hope you love it!",
	"email.order_status.cancelled":    "Your order has been cancelled. If you paid online, a refund will be processed within 7-10 business days.",
	"email.password_reset.subject":    "Reset your %s password",
	"email.shipping.free":             "Free",
}
