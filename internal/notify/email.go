package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/config"
	"github.com/ahmetk3436/vigil/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmailNotifier sends alert emails over SMTP and records each successful
// dispatch in the notification log.
type EmailNotifier struct {
	host      string
	port      int
	username  string
	password  string
	sender    string
	recipient string
	db        *gorm.DB
}

func NewEmailNotifier(cfg *config.Config, db *gorm.DB) *EmailNotifier {
	return &EmailNotifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		sender:    cfg.AlertSender,
		recipient: cfg.AlertRecipient,
		db:        db,
	}
}

func (n *EmailNotifier) Send(ctx context.Context, snap alerting.Snapshot) error {
	if n.host == "" || n.recipient == "" {
		return fmt.Errorf("email notifier not configured")
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	msg := buildMessage(n.sender, n.recipient, snap)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(addr, auth, n.sender, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	n.record(ctx, snap)
	return nil
}

// record writes the audit row. A failure here is logged, not returned:
// the email already went out and the engine must latch the notify flag.
func (n *EmailNotifier) record(ctx context.Context, snap alerting.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		slog.Error("Failed to marshal alert snapshot", "alert_id", snap.AlertID, "error", err)
		return
	}
	log := models.NotificationLog{
		AlertID:   snap.AlertID,
		Recipient: n.recipient,
		Snapshot:  datatypes.JSON(raw),
		SentAt:    time.Now().UTC(),
	}
	if err := n.db.WithContext(ctx).Create(&log).Error; err != nil {
		slog.Error("Failed to record notification", "alert_id", snap.AlertID, "error", err)
	}
}

func buildMessage(sender, recipient string, snap alerting.Snapshot) string {
	var b strings.Builder
	b.WriteString("From: IoT Dashboard <" + sender + ">\r\n")
	b.WriteString("To: " + recipient + "\r\n")
	b.WriteString("Subject: Alert detected!\r\n")
	b.WriteString("\r\n")
	b.WriteString("An alert has been triggered for the following device and sensor:\r\n\r\n")
	fmt.Fprintf(&b, "Device: %s\r\n", snap.Device)
	fmt.Fprintf(&b, "Sensor: %s\r\n", snap.Sensor)
	fmt.Fprintf(&b, "Condition: %s %g\r\n", snap.Condition, snap.Threshold)
	fmt.Fprintf(&b, "Period: last %s\r\n", snap.PeriodLabel)
	fmt.Fprintf(&b, "Color: %s\r\n", snap.Color)
	return b.String()
}
