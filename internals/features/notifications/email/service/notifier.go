package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"qurban_backend/internals/configs"
)

var ErrSMTPNotConfigured = errors.New("SMTP belum dikonfigurasi")

// Notifier: pengirim email konfirmasi pesanan.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	Sender    mailSender
	FromName  string
	FromEmail string
	Limiter   *rate.Limiter
}

// NewSMTPNotifierFromEnv: SMTP_HOST/PORT/USER/PASS, FROM_NAME, FROM_EMAIL.
// Pengiriman dibatasi SMTP_RATE_PER_SEC (default 2/detik, burst 5).
func NewSMTPNotifierFromEnv() *SMTPNotifier {
	host := configs.GetEnv("SMTP_HOST", "smtp.gmail.com")
	port := configs.GetEnvInt("SMTP_PORT", 587)
	user := configs.GetEnv("SMTP_USER")
	pass := configs.GetEnv("SMTP_PASS")

	from := configs.GetEnv("FROM_EMAIL", user)
	n := &SMTPNotifier{
		FromName:  configs.GetEnv("FROM_NAME", "Panitia Qurban"),
		FromEmail: from,
		Limiter:   rate.NewLimiter(rate.Limit(configs.GetEnvInt("SMTP_RATE_PER_SEC", 2)), 5),
	}
	if user != "" && pass != "" {
		n.Sender = gomail.NewDialer(host, port, user, pass)
	} else {
		log.Println("[MAIL] SMTP_USER/SMTP_PASS kosong, email tidak akan terkirim")
	}
	return n
}

func (n *SMTPNotifier) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	if n.Sender == nil {
		return ErrSMTPNotConfigured
	}
	if msg.To == "" {
		return fmt.Errorf("alamat email tujuan kosong")
	}
	if n.Limiter != nil {
		if err := n.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit smtp: %w", err)
		}
	}

	m, err := n.buildMessage(msg)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := n.Sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Printf("[MAIL] konfirmasi #%s terkirim ke %s (%s)", msg.OrderID, msg.To, time.Since(start))
	return nil
}

func (n *SMTPNotifier) buildMessage(msg OrderConfirmation) (*gomail.Message, error) {
	html, text, err := msg.Render(n.FromName)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.FromEmail, n.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", Subject(msg.OrderID, n.FromName))
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if len(msg.QRPNG) > 0 {
		png := msg.QRPNG
		copyPNG := gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		})
		m.Embed("qrcode.png", copyPNG, gomail.SetHeader(map[string][]string{
			"Content-ID":   {"<qrcode>"},
			"Content-Type": {"image/png"},
		}))
		m.Attach(fmt.Sprintf("qr-code-%s.png", msg.OrderID), copyPNG, gomail.SetHeader(map[string][]string{
			"Content-Type": {"image/png"},
		}))
	}
	return m, nil
}
