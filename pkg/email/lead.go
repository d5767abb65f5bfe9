package email

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed i18n/*.toml
var leadMessages embed.FS

// Lead is the data of one operator notification.
type Lead struct {
	ID         string
	Kind       string // contact or join
	Locale     string
	Fields     []LeadField
	ReplyTo    string
	ReceivedAt time.Time
}

type LeadField struct {
	Name  string
	Value string
}

// LeadTemplates renders operator notifications in the lead's language.
type LeadTemplates struct {
	bundle       *i18n.Bundle
	appName      string
	primaryColor string
	defaultLang  string
}

func NewLeadTemplates(appName, primaryColor, defaultLocale string) (*LeadTemplates, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("email: default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(leadMessages, "i18n/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(leadMessages, f); err != nil {
			return nil, fmt.Errorf("email: load %s: %w", f, err)
		}
	}

	if appName == "" {
		appName = "Llante"
	}
	if primaryColor == "" {
		primaryColor = "#111827"
	}
	return &LeadTemplates{
		bundle:       bundle,
		appName:      appName,
		primaryColor: primaryColor,
		defaultLang:  def.String(),
	}, nil
}

// Build renders the notification for l addressed to the operators in to.
func (t *LeadTemplates) Build(to []string, l Lead) (Message, error) {
	if len(cleanAddrs(to)) == 0 {
		return Message{}, invalid("no operator recipients configured")
	}
	if l.Kind != "contact" && l.Kind != "join" {
		return Message{}, invalid("unknown lead kind " + l.Kind)
	}

	loc := i18n.NewLocalizer(t.bundle, l.Locale, t.defaultLang)
	tr := func(id string) string {
		s, err := loc.Localize(&i18n.LocalizeConfig{
			MessageID:    id,
			TemplateData: map[string]string{"AppName": t.appName},
		})
		if err != nil {
			return id
		}
		return s
	}

	received := l.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	subject := tr(l.Kind + "_subject")
	intro := tr(l.Kind + "_intro")

	rows := make([][2]string, 0, len(l.Fields)+3)
	for _, f := range l.Fields {
		rows = append(rows, [2]string{tr("field_" + f.Name), f.Value})
	}
	rows = append(rows,
		[2]string{tr("lead_id"), l.ID},
		[2]string{tr("lead_locale"), l.Locale},
		[2]string{tr("lead_received"), received.UTC().Format(time.RFC3339)},
	)

	var text strings.Builder
	text.WriteString(intro + "\n\n")
	for _, r := range rows {
		fmt.Fprintf(&text, "%s: %s\n", r[0], r[1])
	}
	text.WriteString("\n" + tr("footer") + "\n")

	var rowsHTML strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&rowsHTML,
			`<tr><td style="padding: 6px 12px; color: #6b7280; vertical-align: top;">%s</td><td style="padding: 6px 12px; white-space: pre-wrap;">%s</td></tr>`,
			html.EscapeString(r[0]), html.EscapeString(r[1]))
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: %s;">%s</h2>
    <p>%s</p>
    <table style="border-collapse: collapse; width: 100%%;">%s</table>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">%s</p>
</body>
</html>`,
		t.primaryColor, html.EscapeString(subject), html.EscapeString(intro), rowsHTML.String(), html.EscapeString(tr("footer")))

	return Message{
		To:       to,
		ReplyTo:  l.ReplyTo,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: htmlBody,
		LeadID:   l.ID,
	}, nil
}
