package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTFallsBackToEnglishThenKey(t *testing.T) {
	if got := T(LocaleHI, "error.otp_invalid"); got == enMessages["error.otp_invalid"] {
		t.Fatalf("expected hindi message, got english")
	}
	if got := T(LocaleHI, "email.shipping.free"); got != "Free" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := T(LocaleEN, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf(LocaleEN, "error.login_rate_limited", 15)
	if got != "Too many failed attempts. Try again in 15 minutes." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{name: "query", url: "/?lang=hi", want: LocaleHI},
		{name: "header", url: "/", header: map[string]string{"X-Locale": "hi-IN"}, want: LocaleHI},
		{name: "accept_language", url: "/", header: map[string]string{"Accept-Language": "fr-FR,hi;q=0.8,en;q=0.5"}, want: LocaleHI},
		{name: "default", url: "/", header: map[string]string{"Accept-Language": "fr-FR"}, want: LocaleEN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tc.url, nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}
