// internal/adapters/out/mail/sendgrid.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	orderdom "toko/internal/domain/order"
)

// SendGridSender delivers order confirmation mail via SendGrid.
type SendGridSender struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		apiKey:   strings.TrimSpace(apiKey),
		from:     strings.TrimSpace(from),
		fromName: "Toko",
	}
}

func (s *SendGridSender) SendReceipt(_ context.Context, toEmail string, res orderdom.Result) error {
	if s == nil || s.apiKey == "" || s.from == "" {
		return errors.New("mail: sendgrid sender not configured")
	}
	to := strings.TrimSpace(toEmail)
	if to == "" {
		return errors.New("mail: recipient is empty")
	}

	subject := fmt.Sprintf("Pesanan diterima (%s)", res.ID)
	body := receiptBody(res)

	from := sgmail.NewEmail(s.fromName, s.from)
	msg := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", to), body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail: sendgrid status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

func receiptBody(res orderdom.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Terima kasih! Pesanan %s telah diterima.\n\n", res.ID)
	for _, l := range res.Lines {
		if l.Size > 0 {
			fmt.Fprintf(&b, "- %s (%s, %d) x%d = Rp%d\n", l.Name, l.Color, l.Size, l.Qty, l.Subtotal)
		} else {
			fmt.Fprintf(&b, "- %s (%s) x%d = Rp%d\n", l.Name, l.Color, l.Qty, l.Subtotal)
		}
	}
	fmt.Fprintf(&b, "\nSubtotal: Rp%d\n", res.Subtotal)
	fmt.Fprintf(&b, "Ongkir:   Rp%d\n", res.ShippingFee)
	fmt.Fprintf(&b, "Total:    Rp%d\n\n", res.Total)
	fmt.Fprintf(&b, "Alamat: %s\nPembayaran: %s\n", res.Address, res.PaymentMethod)
	return b.String()
}
