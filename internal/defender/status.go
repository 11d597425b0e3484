package defender

import (
	"fmt"
	"time"
)

// Severity is the derived highlight tier for a status record. It is computed
// at render time and never stored.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
)

// Staleness thresholds shared by the overview and single-host views.
const (
	SignatureAgeWarnDays = 5
	ScanRecencyWarn      = 14 * 24 * time.Hour
)

// StatusRecord is the protection status of one host, produced by a successful
// probe. A record only exists for a host that answered both the reachability
// check and the status query; it is immutable after creation.
type StatusRecord struct {
	Host                      string
	AntivirusEnabled          bool
	RealTimeProtectionEnabled bool
	SignatureAgeDays          int
	LastFullScan              *time.Time // nil = never scanned
	ThreatsFound              *int       // nil = no threat data available, distinct from 0
}

// Severity derives the highlight tier relative to now.
func (r StatusRecord) Severity(now time.Time) Severity {
	if !r.AntivirusEnabled || !r.RealTimeProtectionEnabled {
		return SeverityCritical
	}
	if r.ThreatsFound != nil && *r.ThreatsFound > 0 {
		return SeverityCritical
	}
	if r.SignatureAgeDays > SignatureAgeWarnDays {
		return SeverityWarning
	}
	if r.LastFullScan == nil || now.Sub(*r.LastFullScan) > ScanRecencyWarn {
		return SeverityWarning
	}
	return SeverityNormal
}

// LastFullScanText is the presentation form of the scan time, "Never" when the
// host was never fully scanned.
func (r StatusRecord) LastFullScanText() string {
	if r.LastFullScan == nil {
		return "Never"
	}
	return r.LastFullScan.Format("2006-01-02 15:04:05")
}

// ThreatsFoundText is the presentation form of the threat count, "None" when
// no threat data was available.
func (r StatusRecord) ThreatsFoundText() string {
	if r.ThreatsFound == nil {
		return "None"
	}
	return fmt.Sprintf("%d", *r.ThreatsFound)
}
