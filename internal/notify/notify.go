// Package notify mails newly published grades to the student.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"gradecheck/internal/components/assert"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"

	"github.com/jordan-wright/email"
)

const (
	report_notifier_notify = "notifier.notify"
)

const (
	DefaultSmtpServer = "mail.ustc.edu.cn"
	DefaultSmtpPort   = 465

	subjectPrefix = "成绩更新: "
)

type SmtpConfig struct {
	Server string
	Port   int
	// EmailAddress is both the sender and the recipient.
	EmailAddress string
	Password     string
	// TLSConfig replaces the default tls config, ServerName defaults to
	// Server.
	TLSConfig *tls.Config
}

func (c SmtpConfig) addr() string {
	return c.Server + ":" + strconv.Itoa(c.Port)
}

// Sender delivers a composed mail.
//
// note: fault injection point
type Sender interface {
	Send(ctx context.Context, mail *email.Email) error
}

// SmtpSender sends over an implicitly TLS wrapped smtp connection
// (smtps, usually port 465) after authenticating with PLAIN.
type SmtpSender struct {
	config SmtpConfig
}

func NewSmtpSender(config SmtpConfig) SmtpSender {
	assert.NotEmptyStr(config.Server)
	return SmtpSender{config: config}
}

func (s SmtpSender) Send(ctx context.Context, mail *email.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tlsConfig := &tls.Config{}
	if s.config.TLSConfig != nil {
		tlsConfig = s.config.TLSConfig.Clone()
	}
	if tlsConfig.ServerName == "" {
		tlsConfig.ServerName = s.config.Server
	}
	auth := smtp.PlainAuth("", s.config.EmailAddress, s.config.Password, s.config.Server)
	return mail.SendWithTLS(s.config.addr(), auth, tlsConfig)
}

// Compose builds the notification mail for `records`.
func Compose(address string, records []grade.Record) *email.Email {
	mail := email.NewEmail()
	mail.From = address
	mail.To = []string{address}
	mail.Subject = subjectPrefix + strings.Join(grade.Names(records), "+")

	var body strings.Builder
	for _, r := range records {
		body.WriteString(r.String())
	}
	mail.Text = []byte(body.String())
	return mail
}

type Notifier struct {
	address string
	sender  Sender
	tel     telemetry.API
}

func NewNotifier(address string, sender Sender, tel telemetry.API) Notifier {
	assert.NotNil(sender)
	assert.NotNil(tel)

	return Notifier{
		address: address,
		sender:  sender,
		tel:     telemetry.NewScopedAPI("notify", tel),
	}
}

// Notify mails `records` to the configured address, nothing is sent when
// there are no records.
func (n Notifier) Notify(ctx context.Context, records []grade.Record) error {
	if len(records) == 0 {
		n.tel.ReportDebug("nothing to notify")
		return nil
	}

	mail := Compose(n.address, records)
	n.tel.ReportDebug("send notification", mail.Subject)

	err := n.sender.Send(ctx, mail)
	if err != nil {
		n.tel.ReportBroken(report_notifier_notify, err, len(records))
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}
