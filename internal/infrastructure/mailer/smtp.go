package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SMTPMailer sends sale receipts as plain-text mail. When the SMTP
// section is disabled in configuration, sends become no-ops so the
// caisse keeps working without a mail relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendReceipt renders the receipt for a sale and mails it to the member
func (m *SMTPMailer) SendReceipt(ctx context.Context, to string, sale *caisse.Sale) error {
	if !m.cfg.Enabled {
		m.logger.Debug("SMTP disabled, skipping receipt",
			zap.String("sale_number", sale.Number),
			zap.String("to", to))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.buildMessage(to, sale)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send receipt for sale %s: %w", sale.Number, err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(to string, sale *caisse.Sale) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: Ticket de caisse %s\r\n", sale.Number)
	fmt.Fprintf(&buf, "Date: %s\r\n", sale.SoldAt.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "Ticket %s du %s\r\n\r\n", sale.Number, sale.SoldAt.Format("02/01/2006 15:04"))
	for _, line := range sale.Lines {
		fmt.Fprintf(&buf, "%-40s %8s x %s€ = %s€\r\n",
			line.Label,
			line.Quantity.String(),
			line.UnitPrice.StringFixed(2),
			line.Amount.StringFixed(2))
	}
	fmt.Fprintf(&buf, "\r\nTotal: %s€\r\n", sale.Total.StringFixed(2))
	for _, p := range sale.Payments {
		fmt.Fprintf(&buf, "Règlement %s: %s€\r\n", p.Method, p.Amount.StringFixed(2))
	}
	change := sale.ChangeDue()
	if change.IsPositive() {
		fmt.Fprintf(&buf, "Rendu: %s€\r\n", change.StringFixed(2))
	}
	buf.WriteString("\r\nMerci de votre visite.\r\n")

	return buf.Bytes()
}
