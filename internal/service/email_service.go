package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/models"

	"github.com/shopspring/decimal"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg  *config.EmailConfig
	site config.SiteConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, site config.SiteConfig) *EmailService {
	return &EmailService{cfg: cfg, site: site}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendOrderConfirmation 发送下单确认邮件，用户无邮箱时跳过
func (s *EmailService) SendOrderConfirmation(ctx context.Context, order *models.Order, user *models.User) error {
	to := orderRecipient(order, user)
	if to == "" {
		return nil
	}
	subject, body := s.buildOrderConfirmationContent(order, user)
	return s.sendTextEmail(ctx, to, subject, body)
}

// SendOrderStatus 发送订单状态变更邮件，无对应文案的状态不发送
func (s *EmailService) SendOrderStatus(ctx context.Context, order *models.Order, user *models.User) error {
	to := orderRecipient(order, user)
	if to == "" {
		return nil
	}
	subject, body, ok := s.buildOrderStatusContent(order, user)
	if !ok {
		return nil
	}
	return s.sendTextEmail(ctx, to, subject, body)
}

// SendPasswordReset 发送密码重置链接
func (s *EmailService) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	subject := i18n.Sprintf(i18n.LocaleEN, "email.password_reset.subject", s.siteName())
	body := fmt.Sprintf("Hi %s,\n\nClick the link below to reset your password:\n%s\n\nThis link expires in 1 hour.\n\nIf you did not request this, please ignore this email.\n\n— %s\n",
		name, resetURL, s.siteName())
	return s.sendTextEmail(ctx, to, subject, body)
}

func (s *EmailService) sendTextEmail(ctx context.Context, toEmail, subject, body string) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func (s *EmailService) siteName() string {
	if name := strings.TrimSpace(s.site.Name); name != "" {
		return name
	}
	return "House of Ambava"
}

func (s *EmailService) trackURL(orderNumber string) string {
	base := strings.TrimRight(strings.TrimSpace(s.site.BaseURL), "/")
	return base + "/account/track-order/?order_number=" + url.QueryEscape(orderNumber)
}

func (s *EmailService) buildOrderConfirmationContent(order *models.Order, user *models.User) (string, string) {
	locale := i18n.LocaleEN
	var items strings.Builder
	for _, item := range order.Items {
		items.WriteString(fmt.Sprintf("  - %s (×%d) — ₹%s\n", item.ProductName, item.Quantity, formatRupees(item.Total.Decimal)))
	}
	discount := ""
	if order.DiscountAmount.GreaterThan(decimal.Zero) {
		discount = fmt.Sprintf("Discount: -₹%s\n", formatRupees(order.DiscountAmount.Decimal))
	}
	shipping := i18n.T(locale, "email.shipping.free")
	if order.ShippingCharge.GreaterThan(decimal.Zero) {
		shipping = "₹" + formatRupees(order.ShippingCharge.Decimal)
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Hi %s,\n\n", greetingName(user)))
	body.WriteString("Thank you for your order! Here are your order details:\n\n")
	body.WriteString(fmt.Sprintf("Order Number: %s\n", order.OrderNumber))
	body.WriteString(fmt.Sprintf("Payment: %s\n\n", i18n.T(locale, "payment.method."+order.PaymentMethod)))
	body.WriteString("Items:\n")
	body.WriteString(items.String())
	body.WriteString(fmt.Sprintf("\nSubtotal: ₹%s\n", formatRupees(order.Subtotal.Decimal)))
	body.WriteString(discount)
	body.WriteString(fmt.Sprintf("Shipping: %s\n", shipping))
	body.WriteString(fmt.Sprintf("Total: ₹%s\n\n", formatRupees(order.Total.Decimal)))
	body.WriteString("Shipping to:\n")
	body.WriteString(order.ShippingFullName + "\n")
	body.WriteString(order.ShippingAddress + "\n")
	body.WriteString(fmt.Sprintf("%s, %s — %s\n\n", order.ShippingCity, order.ShippingState, order.ShippingPincode))
	body.WriteString(fmt.Sprintf("You can track your order at: %s\n\n", s.trackURL(order.OrderNumber)))
	body.WriteString(fmt.Sprintf("Thank you for shopping with %s!\n\n— %s\n", s.siteName(), s.siteName()))

	subject := i18n.Sprintf(locale, "email.order_confirmed.subject", order.OrderNumber, s.siteName())
	return subject, body.String()
}

func (s *EmailService) buildOrderStatusContent(order *models.Order, user *models.User) (string, string, bool) {
	locale := i18n.LocaleEN
	var message string
	switch order.Status {
	case constants.OrderStatusConfirmed:
		message = i18n.T(locale, "email.order_status.confirmed")
	case constants.OrderStatusShipped:
		tracking := strings.TrimSpace(order.TrackingNumber)
		if tracking == "" {
			tracking = i18n.T(locale, "email.order_status.tracking_tbd")
		}
		message = i18n.Sprintf(locale, "email.order_status.shipped", tracking)
	case constants.OrderStatusOutForDelivery:
		message = i18n.T(locale, "email.order_status.out")
	case constants.OrderStatusDelivered:
		message = i18n.T(locale, "email.order_status.delivered")
	case constants.OrderStatusCancelled:
		message = i18n.T(locale, "email.order_status.cancelled")
	default:
		return "", "", false
	}
	label := i18n.T(locale, "order.status."+order.Status)
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nOrder: #%s\nStatus: %s\n\nTrack your order: %s\n\n— %s\n",
		greetingName(user), message, order.OrderNumber, label, s.trackURL(order.OrderNumber), s.siteName())
	subject := i18n.Sprintf(locale, "email.order_status.subject", order.OrderNumber, label, s.siteName())
	return subject, body, true
}

func orderRecipient(order *models.Order, user *models.User) string {
	if user != nil && strings.TrimSpace(user.Email) != "" {
		return strings.TrimSpace(user.Email)
	}
	if order != nil {
		return strings.TrimSpace(order.ContactEmail)
	}
	return ""
}

func greetingName(user *models.User) string {
	if user == nil {
		return "there"
	}
	if name := strings.TrimSpace(user.FirstName); name != "" {
		return name
	}
	return user.Username
}

// formatRupees 取整并按千位分组，如 12,499
func formatRupees(amount decimal.Decimal) string {
	raw := amount.Round(0).StringFixed(0)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	var out strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if negative {
		return "-" + out.String()
	}
	return out.String()
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	_, err = w.Write(msg)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
