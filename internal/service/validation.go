package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return len(strings.TrimSpace(fl.Field().String())) >= 5
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// fieldMessages 字段级提示文案，按 字段名.规则 匹配，缺省按字段名
var fieldMessages = map[string]string{
	"username":         "Username is required.",
	"email":            "Email is required.",
	"email.email":      "Enter a valid email address.",
	"password":         "Password is required.",
	"confirm_password": "Please confirm your password.",
	"phone":            "Phone number is required.",
	"otp":              "OTP is required.",
	"first_name":       "First name is required.",
	"full_name":        "Full name is required.",
	"address_line1":    "Address is required.",
	"city":             "City is required.",
	"state":            "State is required.",
	"pincode":          "Valid pincode is required.",
	"label":            "Choose home, work or other.",
	"label.oneof":      "Choose home, work or other.",
	"order_id":         "Please select an order.",
	"reason":           "Please select a reason.",
	"reason.oneof":     "Please select a reason.",
	"request_type":     "Choose return or exchange.",
	"rating":           "Rating must be between 1 and 5.",
	"title.max":        "Title must be 200 characters or fewer.",
	"comment.max":      "Comment must be 5000 characters or fewer.",
	"payment_method":   "Choose a payment method.",
}

// validateStruct 校验请求结构体，返回包含全部字段错误的 ValidationError
func validateStruct(input interface{}) *ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return &ValidationError{}
	}
	result := &ValidationError{}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		result.Add("non_field", err.Error())
		return result
	}
	for _, fe := range fieldErrors {
		result.Add(fe.Field(), fieldMessage(fe))
	}
	return result
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "max":
		return fe.Field() + " is too long."
	case "min":
		return fe.Field() + " is too short."
	default:
		return fe.Field() + " is invalid."
	}
}
