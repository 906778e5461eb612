package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strings"

	"github.com/spf13/cast"
)

const (
	TemplateSubmissionReceipt = "submission_receipt"
	TemplateAdminNotification = "admin_notification"
	TemplateInvoice           = "invoice"
	TemplateStatusUpdate      = "status_update"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("mail").Funcs(FuncMap).ParseFS(templatesFS, "templates/*.html"))

// FuncMap is shared with other packages that render the same documents.
var FuncMap = template.FuncMap{
	"rupiah": func(amount any) string {
		// queued payloads come back from JSON as float64
		return FormatRupiah(cast.ToInt64(amount))
	},
}

type Email struct {
	ToAddr   string `json:"to_addr"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Vars     any    `json:"vars"`
}

// Sender delivers an already-rendered HTML message.
type Sender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// SMTPSender reads its credentials from the environment; get an app password from the mail provider.
type SMTPSender struct {
	From     string
	Password string
	Host     string
	Port     string
}

func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		From:     os.Getenv("FROM_EMAIL"),
		Password: os.Getenv("FROM_EMAIL_PASSWORD"),
		Host:     os.Getenv("SMTP_ADDR"),
		Port:     os.Getenv("SMTP_PORT"),
	}
}

func (s *SMTPSender) SendHTML(to []string, subject, htmlBody string) error {
	if s.Host == "" {
		return fmt.Errorf("SMTP_ADDR environment variable not set")
	}
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)

	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, to, BuildMessage(s.From, to, subject, htmlBody))
}

// BuildMessage writes headers in a fixed order followed by the HTML body.
func BuildMessage(from string, to []string, subject, htmlBody string) []byte {
	var msg strings.Builder
	headers := [][2]string{
		{"From", from},
		{"To", strings.Join(to, ", ")},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}
	for _, h := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return []byte(msg.String())
}

func Render(name string, vars any) (string, error) {
	var rendered bytes.Buffer
	if err := templates.ExecuteTemplate(&rendered, name+".html", vars); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}
	return rendered.String(), nil
}

func (e Email) Send(sender Sender) error {
	var to []string
	for _, addr := range strings.Split(e.ToAddr, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipient for %q", e.Subject)
	}

	body, err := Render(e.Template, e.Vars)
	if err != nil {
		return err
	}

	return sender.SendHTML(to, e.Subject, body)
}

// FormatRupiah renders 600000 as "Rp 600.000".
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)

	var out strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(d)
	}

	if negative {
		return "-Rp " + out.String()
	}
	return "Rp " + out.String()
}
