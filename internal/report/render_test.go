package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBigBear/Get-DefenderReport/internal/defender"
)

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

var renderNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func TestOverviewRowClassPrecedence(t *testing.T) {
	r := newTestRenderer(t)
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          true,
		RealTimeProtectionEnabled: true,
		SignatureAgeDays:          10,
		ThreatsFound:              intPtr(3),
	}

	html, err := r.RenderOverview([]defender.StatusRecord{rec}, renderNow)
	require.NoError(t, err)
	assert.Contains(t, html, `class="red"`)
	assert.NotContains(t, html, `class="orange"`)
}

func TestOverviewRowClassStaleSignatures(t *testing.T) {
	r := newTestRenderer(t)
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          true,
		RealTimeProtectionEnabled: true,
		SignatureAgeDays:          6,
	}

	html, err := r.RenderOverview([]defender.StatusRecord{rec}, renderNow)
	require.NoError(t, err)
	assert.Contains(t, html, `class="orange"`)
	assert.NotContains(t, html, `class="red"`)
}

func TestOverviewRowUnclassed(t *testing.T) {
	r := newTestRenderer(t)
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          true,
		RealTimeProtectionEnabled: true,
		SignatureAgeDays:          2,
		LastFullScan:              timePtr(renderNow.Add(-24 * time.Hour)),
		ThreatsFound:              intPtr(0),
	}

	html, err := r.RenderOverview([]defender.StatusRecord{rec}, renderNow)
	require.NoError(t, err)
	assert.NotContains(t, html, `class="red"`)
	assert.NotContains(t, html, `class="orange"`)
}

func TestOverviewMissingFieldFallbacks(t *testing.T) {
	r := newTestRenderer(t)
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          true,
		RealTimeProtectionEnabled: true,
	}

	html, err := r.RenderOverview([]defender.StatusRecord{rec}, renderNow)
	require.NoError(t, err)
	assert.Contains(t, html, "Never")
	assert.Contains(t, html, "None")
}

func TestOverviewSelfContained(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderOverview(nil, renderNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<style>")
	assert.NotContains(t, html, "href=")
	assert.NotContains(t, html, "src=")
	assert.Contains(t, html, "2026-08-26 12:00:00")
}

func TestRenderIdempotent(t *testing.T) {
	r := newTestRenderer(t)
	records := []defender.StatusRecord{
		{Host: "srv1", AntivirusEnabled: true, RealTimeProtectionEnabled: true, SignatureAgeDays: 3},
		{Host: "srv2", AntivirusEnabled: false, ThreatsFound: intPtr(1)},
	}

	first, err := r.RenderOverview(records, renderNow)
	require.NoError(t, err)
	second, err := r.RenderOverview(records, renderNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hostFirst, err := r.RenderHost(records[1], renderNow)
	require.NoError(t, err)
	hostSecond, err := r.RenderHost(records[1], renderNow)
	require.NoError(t, err)
	assert.Equal(t, hostFirst, hostSecond)
}

func TestHostFieldsClassification(t *testing.T) {
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          false,
		RealTimeProtectionEnabled: true,
		SignatureAgeDays:          7,
		LastFullScan:              nil,
		ThreatsFound:              intPtr(2),
	}

	fields := hostFields(rec, renderNow)
	require.Len(t, fields, 5)

	assert.Equal(t, "Defender Enabled", fields[0].Name)
	assert.Equal(t, "Disabled", fields[0].Value)
	assert.Equal(t, "red", fields[0].Class)

	assert.Equal(t, "Real-Time Protection", fields[1].Name)
	assert.Equal(t, "", fields[1].Class)

	assert.Equal(t, "Antivirus Definitions Age", fields[2].Name)
	assert.Equal(t, "orange", fields[2].Class)

	assert.Equal(t, "Last Full Scan", fields[3].Name)
	assert.Equal(t, "Never", fields[3].Value)
	assert.Equal(t, "orange", fields[3].Class)

	assert.Equal(t, "Threats Found", fields[4].Name)
	assert.Equal(t, "2", fields[4].Value)
	assert.Equal(t, "red", fields[4].Class)
}

func TestHostFieldsRecentScanUnclassed(t *testing.T) {
	rec := defender.StatusRecord{
		Host:                      "srv1",
		AntivirusEnabled:          true,
		RealTimeProtectionEnabled: true,
		SignatureAgeDays:          1,
		LastFullScan:              timePtr(renderNow.Add(-3 * 24 * time.Hour)),
		ThreatsFound:              intPtr(0),
	}

	for _, f := range hostFields(rec, renderNow) {
		assert.Empty(t, f.Class, "field %s should not be highlighted", f.Name)
	}
}

func TestRenderHostSeverityBadge(t *testing.T) {
	r := newTestRenderer(t)
	rec := defender.StatusRecord{Host: "srv1", AntivirusEnabled: false}

	html, err := r.RenderHost(rec, renderNow)
	require.NoError(t, err)
	assert.Contains(t, html, "Windows Defender Status: srv1")
	assert.Contains(t, html, "critical")
}
