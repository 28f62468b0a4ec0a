// Package notify delivers scan alerts by email.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"example.com/stock-pattern-scanner/internal/scan"
)

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// sendFunc matches smtp.SendMail; injectable for tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer composes and sends scan alert emails.
type Mailer struct {
	config Config
	send   sendFunc
	logger zerolog.Logger

	// Now supplies the timestamp shown in the alert subject.
	Now func() time.Time
}

// NewMailer creates a mailer that delivers via SMTP with plain auth.
func NewMailer(cfg Config, logger zerolog.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Mailer{
		config: cfg,
		send:   smtp.SendMail,
		logger: logger,
		Now:    time.Now,
	}
}

var alertTemplate = template.Must(template.New("alert").Parse(`<html>
<body>
<h2>Pattern Scan Alert</h2>
<p>{{.Total}} pattern occurrence{{if ne .Total 1}}s{{end}} found across {{.SymbolCount}} symbol{{if ne .SymbolCount 1}}s{{end}}.</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Symbol</th><th>Pattern</th><th>Date</th><th>Confidence</th><th>Close</th><th>Recommendation</th></tr>
{{range .Results}}<tr>
<td>{{.Symbol}}</td>
<td>{{.Pattern}}</td>
<td>{{.Date}}</td>
<td>{{.Confidence}}</td>
<td>${{printf "%.2f" .Close}}</td>
<td>{{.Recommendation}}</td>
</tr>
{{end}}</table>
<p>Average confidence: {{printf "%.1f" .Summary.AvgConfidence}}</p>
</body>
</html>
`))

type alertData struct {
	Total       int
	SymbolCount int
	Results     []scan.Result
	Summary     scan.Summary
}

// SendAlert emails the scan results. Nothing is sent when the result list is
// empty.
func (m *Mailer) SendAlert(results []scan.Result, summary scan.Summary) error {
	if len(results) == 0 {
		m.logger.Debug().Msg("no results, skipping alert email")
		return nil
	}

	html, err := m.compose(results, summary)
	if err != nil {
		return fmt.Errorf("composing alert: %w", err)
	}

	subject := fmt.Sprintf("Pattern Scan Alert: %d signals (%s)",
		len(results), m.Now().Format("2006-01-02"))
	msg := m.message(subject, composeText(results, summary), html)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(addr, auth, m.config.From, m.config.To, msg); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}
	m.logger.Info().Int("results", len(results)).Strs("to", m.config.To).Msg("alert email sent")
	return nil
}

func (m *Mailer) compose(results []scan.Result, summary scan.Summary) ([]byte, error) {
	var buf bytes.Buffer
	err := alertTemplate.Execute(&buf, alertData{
		Total:       len(results),
		SymbolCount: len(summary.Symbols),
		Results:     results,
		Summary:     summary,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// composeText builds the plain-text alternative for clients that reject HTML.
func composeText(results []scan.Result, summary scan.Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Pattern Scan Alert: %d signals across %d symbols\r\n\r\n",
		len(results), len(summary.Symbols))
	for _, r := range results {
		fmt.Fprintf(&buf, "%-6s %-20s %s  conf %d  $%.2f  %s\r\n",
			r.Symbol, r.Pattern, r.Date, r.Confidence, r.Close, r.Recommendation)
	}
	fmt.Fprintf(&buf, "\r\nAverage confidence: %.1f\r\n", summary.AvgConfidence)
	return buf.Bytes()
}

const mimeBoundary = "scan-alert-boundary"

// message assembles a multipart/alternative MIME message: plain text first,
// HTML preferred.
func (m *Mailer) message(subject string, text, html []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(m.config.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	buf.Write(text)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	buf.Write(html)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes()
}
