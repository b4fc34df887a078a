package service

import (
	"strconv"
	"unicode"

	"github.com/ambava-store/internal/config"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// Message 返回英文提示
func (e passwordPolicyError) Message() string {
	switch e.key {
	case "error.password_min_length":
		if len(e.args) > 0 {
			if n, ok := e.args[0].(int); ok {
				return "Password must be at least " + strconv.Itoa(n) + " characters."
			}
		}
		return "Password is too short."
	case "error.password_require_upper":
		return "Password must contain an uppercase letter."
	case "error.password_require_lower":
		return "Password must contain a lowercase letter."
	case "error.password_require_number":
		return "Password must contain a number."
	case "error.password_require_special":
		return "Password must contain a special character."
	default:
		return "Password is too easy to guess."
	}
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return passwordPolicyError{key: "error.password_require_upper"}
	}
	if policy.RequireLower && !hasLower {
		return passwordPolicyError{key: "error.password_require_lower"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{key: "error.password_require_number"}
	}
	if policy.RequireSpecial && !hasSpecial {
		return passwordPolicyError{key: "error.password_require_special"}
	}
	if policy.MinEntropyBits > 0 {
		if err := passwordvalidator.Validate(password, policy.MinEntropyBits); err != nil {
			return passwordPolicyError{key: "error.password_too_weak", args: []interface{}{err.Error()}}
		}
	}
	return nil
}

func passwordErrorMessage(err error) string {
	if perr, ok := err.(passwordPolicyError); ok {
		return perr.Message()
	}
	return "Password is too weak."
}
