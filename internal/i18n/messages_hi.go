package i18n

var hiMessages = map[string]string{
	"error.bad_request":              "अमान्य अनुरोध।",
	"error.unauthorized":             "जारी रखने के लिए कृपया लॉग इन करें।",
	"error.forbidden":                "आपको यह करने की अनुमति नहीं है।",
	"error.not_found":                "नहीं मिला।",
	"error.internal":                 "कुछ गलत हो गया। कृपया पुनः प्रयास करें।",
	"error.token_invalid":            "आपका सत्र अमान्य है। कृपया फिर से लॉग इन करें।",
	"error.token_revoked":            "आपका सत्र समाप्त हो गया है। कृपया फिर से लॉग इन करें।",
	"error.validation":               "कृपया चिह्नित फ़ील्ड ठीक करें।",
	"error.rate_limited":             "बहुत अधिक अनुरोध। कृपया बाद में प्रयास करें।",
	"error.rate_limit_unavailable":   "सेवा व्यस्त है। कृपया थोड़ी देर बाद प्रयास करें।",
	"error.invalid_phone":            "मान्य 10 अंकों का मोबाइल नंबर दर्ज करें।",
	"error.otp_rate_limited":         "नया OTP माँगने से पहले 60 सेकंड प्रतीक्षा करें।",
	"error.otp_invalid":              "OTP अमान्य है या समाप्त हो गया है।",
	"error.invalid_credentials":      "उपयोगकर्ता नाम या पासवर्ड गलत है।",
	"error.user_disabled":            "यह खाता निष्क्रिय कर दिया गया है।",
	"error.admin_login_forbidden":    "कृपया साइन इन के लिए एडमिन पैनल का उपयोग करें।",
	"error.login_rate_limited":       "बहुत अधिक असफल प्रयास। %d मिनट बाद पुनः प्रयास करें।",
	"error.oauth_not_configured":     "%s लॉगिन कॉन्फ़िगर नहीं है।",
	"error.oauth_unsupported":        "यह लॉगिन प्रदाता समर्थित नहीं है।",
	"error.oauth_state_invalid":      "लॉगिन सत्र समाप्त हो गया। कृपया पुनः प्रयास करें।",
	"error.oauth_failed":             "%s लॉगिन विफल रहा। कृपया पुनः प्रयास करें।",
	"error.cart_empty":               "कार्ट खाली है।",
	"error.product_not_found":        "उत्पाद \"%s\" उपलब्ध नहीं है।",
	"error.product_missing":          "उत्पाद नहीं मिला।",
	"error.insufficient_stock":       "स्टॉक अपर्याप्त: %s",
	"error.coupon_not_found":         "अमान्य कूपन कोड।",
	"error.coupon_inactive":          "यह कूपन अब सक्रिय नहीं है।",
	"error.coupon_not_started":       "यह कूपन अभी सक्रिय नहीं हुआ है।",
	"error.coupon_expired":           "यह कूपन समाप्त हो गया है।",
	"error.coupon_usage_limit":       "इस कूपन की उपयोग सीमा पूरी हो गई है।",
	"error.coupon_per_user_limit":    "आप यह कूपन पहले ही उपयोग कर चुके हैं।",
	"error.coupon_min_amount":        "इस कूपन के लिए न्यूनतम ऑर्डर राशि पूरी नहीं हुई।",
	"error.order_not_found":          "ऑर्डर नहीं मिला।",
	"error.order_already_shipped":    "यह ऑर्डर भेजा जा चुका है और ऑनलाइन रद्द नहीं किया जा सकता। डिलीवरी के समय ऑर्डर अस्वीकार करें, रिटर्न अपने आप शुरू हो जाएगा।",
	"error.order_cannot_cancel":      "यह ऑर्डर रद्द नहीं किया जा सकता।",
	"error.order_status_invalid":     "ऑर्डर स्थिति में अमान्य बदलाव।",
	"error.payment_gateway":          "भुगतान गेटवे त्रुटि। कृपया पुनः प्रयास करें या कैश ऑन डिलीवरी चुनें।",
	"error.payment_verify_failed":    "भुगतान सत्यापन विफल रहा। कृपया सहायता से संपर्क करें।",
	"error.payment_details_missing":  "भुगतान विवरण अधूरा है।",
	"error.address_not_found":        "पता नहीं मिला।",
	"error.return_not_eligible":      "ऑर्डर नहीं मिला या रिटर्न के योग्य नहीं है।",
	"error.return_exists":            "इस ऑर्डर के लिए एक रिटर्न/एक्सचेंज अनुरोध पहले से सक्रिय है।",
	"error.return_item_invalid":      "चुना गया आइटम इस ऑर्डर का नहीं है।",
	"error.return_not_found":         "रिटर्न अनुरोध नहीं मिला।",
	"error.return_status_invalid":    "रिटर्न स्थिति में अमान्य बदलाव।",
	"error.review_not_verified":      "आप केवल खरीदे गए उत्पादों की समीक्षा कर सकते हैं।",
	"error.review_rate_limited":      "बहुत अधिक समीक्षाएँ। कृपया बाद में प्रयास करें।",
	"error.reset_too_frequent":       "नया रीसेट लिंक माँगने से पहले कृपया प्रतीक्षा करें।",
	"error.reset_link_invalid":       "अमान्य रीसेट लिंक।",
	"error.reset_link_expired":       "यह रीसेट लिंक समाप्त हो गया है। कृपया नया लिंक माँगें।",
	"error.email_send_failed":        "ईमेल भेजने में विफल। कृपया बाद में प्रयास करें।",
	"error.password_min_length":      "पासवर्ड कम से कम %d अक्षरों का होना चाहिए।",
	"error.password_require_upper":   "पासवर्ड में एक बड़ा अक्षर होना चाहिए।",
	"error.password_require_lower":   "पासवर्ड में एक छोटा अक्षर होना चाहिए।",
	"error.password_require_number":  "पासवर्ड में एक अंक होना चाहिए।",
	"error.password_require_special": "पासवर्ड में एक विशेष चिह्न होना चाहिए।",
	"error.password_too_weak":        "पासवर्ड बहुत आसान है।",
	"msg.otp_sent":                   "OTP %s पर भेजा गया",
	"msg.login_welcome":              "फिर से स्वागत है, %s!",
	"msg.signup_welcome":             "स्वागत है, %s! आपका खाता बन गया है।",
	"msg.profile_updated":            "प्रोफ़ाइल अपडेट हो गई!",
	"msg.address_saved":              "पता सहेजा गया!",
	"msg.address_deleted":            "पता हटाया गया।",
	"msg.order_placed":               "ऑर्डर सफलतापूर्वक दिया गया!",
	"msg.order_cod_fallback":         "ऑनलाइन भुगतान उपलब्ध नहीं है। ऑर्डर कैश ऑन डिलीवरी के रूप में दिया गया।",
	"msg.razorpay_created":           "Razorpay ऑर्डर बन गया। भुगतान पूरा करें।",
	"msg.payment_success":            "भुगतान सफल! आपका ऑर्डर पक्का हो गया है।",
	"msg.payment_not_completed":      "भुगतान पूरा नहीं हुआ। आप ऑर्डर पेज से फिर प्रयास कर सकते हैं।",
	"msg.coupon_applied":             "कूपन लागू! आपकी बचत ₹%s",
	"msg.order_cancelled":            "ऑर्डर %s सफलतापूर्वक रद्द किया गया।",
	"msg.return_submitted":           "%s अनुरोध सफलतापूर्वक भेजा गया!",
	"msg.return_updated":             "रिटर्न अनुरोध अपडेट किया गया।",
	"msg.review_created":             "समीक्षा भेजी गई! धन्यवाद।",
	"msg.review_updated":             "समीक्षा अपडेट की गई!",
	"msg.wishlist_added":             "विशलिस्ट में जोड़ा गया!",
	"msg.wishlist_removed":           "विशलिस्ट से हटाया गया।",
	"msg.reset_sent":                 "यदि यह ईमेल पंजीकृत है, तो रीसेट लिंक भेज दिया गया है।",
	"msg.reset_done":                 "पासवर्ड रीसेट हो गया! अब आप लॉग इन कर सकते हैं।",
	"msg.order_status_updated":       "ऑर्डर स्थिति अपडेट की गई।",
	"order.status.pending":           "लंबित",
	"order.status.confirmed":         "पुष्ट",
	"order.status.shipped":           "भेजा गया",
	"order.status.out_for_delivery":  "डिलीवरी के लिए निकला",
	"order.status.delivered":         "डिलीवर हुआ",
	"order.status.cancelled":         "रद्द",
	"payment.method.cod":             "कैश ऑन डिलीवरी",
	"return.type.return":             "रिटर्न",
	"return.type.exchange":           "एक्सचेंज",
}
