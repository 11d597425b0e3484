package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/TheBigBear/Get-DefenderReport/internal/defender"
)

//go:embed templates/overview.html templates/host.html
var templateFS embed.FS

// Row is one host entry of the overview table.
type Row struct {
	Host               string
	AntivirusEnabled   bool
	RealTimeProtection bool
	SignatureAgeDays   int
	LastFullScan       string
	ThreatsFound       string
	Class              string // "red", "orange" or empty
}

// Field is one key/value line of the single-host view, classified on its own.
type Field struct {
	Name  string
	Value string
	Class string
}

type overviewData struct {
	Title       string
	GeneratedAt string
	Rows        []Row
}

type hostData struct {
	Title       string
	GeneratedAt string
	Host        string
	Severity    string
	Fields      []Field
}

// Renderer builds self-contained HTML documents from status records. It does
// no I/O beyond the templates embedded at build time, and for a fixed
// generation time its output is deterministic.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded report templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// RenderOverview renders the multi-host table. now is the generation time
// embedded in the header.
func (r *Renderer) RenderOverview(records []defender.StatusRecord, now time.Time) (string, error) {
	data := overviewData{
		Title:       "Windows Defender Status Overview",
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		Rows:        make([]Row, 0, len(records)),
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, Row{
			Host:               rec.Host,
			AntivirusEnabled:   rec.AntivirusEnabled,
			RealTimeProtection: rec.RealTimeProtectionEnabled,
			SignatureAgeDays:   rec.SignatureAgeDays,
			LastFullScan:       rec.LastFullScanText(),
			ThreatsFound:       rec.ThreatsFoundText(),
			Class:              rowClass(rec),
		})
	}
	return r.execute("overview.html", data)
}

// rowClass classifies an overview row. Threats take precedence over signature
// age: a host with both conditions is red, never orange.
func rowClass(rec defender.StatusRecord) string {
	if rec.ThreatsFound != nil && *rec.ThreatsFound > 0 {
		return "red"
	}
	if rec.SignatureAgeDays > defender.SignatureAgeWarnDays {
		return "orange"
	}
	return ""
}

// RenderHost renders the key/value view for a single record.
func (r *Renderer) RenderHost(rec defender.StatusRecord, now time.Time) (string, error) {
	data := hostData{
		Title:       "Windows Defender Status: " + rec.Host,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		Host:        rec.Host,
		Severity:    string(rec.Severity(now)),
		Fields:      hostFields(rec, now),
	}
	return r.execute("host.html", data)
}

// hostFields classifies each attribute from its typed value, not from the
// rendered text.
func hostFields(rec defender.StatusRecord, now time.Time) []Field {
	enabled := Field{Name: "Defender Enabled", Value: boolText(rec.AntivirusEnabled)}
	if !rec.AntivirusEnabled {
		enabled.Class = "red"
	}

	realtime := Field{Name: "Real-Time Protection", Value: boolText(rec.RealTimeProtectionEnabled)}
	if !rec.RealTimeProtectionEnabled {
		realtime.Class = "red"
	}

	age := Field{Name: "Antivirus Definitions Age", Value: fmt.Sprintf("%d days", rec.SignatureAgeDays)}
	if rec.SignatureAgeDays > defender.SignatureAgeWarnDays {
		age.Class = "orange"
	}

	scan := Field{Name: "Last Full Scan", Value: rec.LastFullScanText()}
	if rec.LastFullScan == nil || now.Sub(*rec.LastFullScan) > defender.ScanRecencyWarn {
		scan.Class = "orange"
	}

	threats := Field{Name: "Threats Found", Value: rec.ThreatsFoundText()}
	if rec.ThreatsFound != nil && *rec.ThreatsFound > 0 {
		threats.Class = "red"
	}

	return []Field{enabled, realtime, age, scan, threats}
}

func boolText(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
