package service

import (
	"strings"
	"unicode"
)

const phoneCountryCode = "+91"

// NormalizePhone 规范化印度手机号为 +91XXXXXXXXXX
func NormalizePhone(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < 128 {
			return r
		}
		return -1
	}, raw)
	if strings.HasPrefix(digits, "91") && len(digits) == 12 {
		digits = digits[2:]
	}
	digits = strings.TrimPrefix(digits, "0")
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	return phoneCountryCode + digits, nil
}

// localPhoneDigits 返回去掉国家码的 10 位号码
func localPhoneDigits(normalized string) string {
	return strings.TrimPrefix(normalized, phoneCountryCode)
}

// isLegacyPhoneUsername 历史自动生成的用户名，可迁移为手机号
func isLegacyPhoneUsername(username string) bool {
	return strings.HasPrefix(username, "user_") || strings.HasPrefix(username, "phone_")
}
