package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/masterzen/winrm"
)

const (
	statusCommand = `Get-MpComputerStatus | Select-Object AntivirusEnabled,RealTimeProtectionEnabled,AntivirusSignatureAge,@{Name='FullScanEndTime';Expression={if ($_.FullScanEndTime) { $_.FullScanEndTime.ToUniversalTime().ToString('o') }}} | ConvertTo-Json -Compress`
	threatCommand = `(Get-MpThreatDetection -ErrorAction Stop | Measure-Object).Count`
)

// WinRMQuerier queries Defender by running PowerShell on the target host over
// WinRM. One querier serves every host in the run; connections are per call.
type WinRMQuerier struct {
	Port     int
	User     string
	Password string
	Timeout  time.Duration
	HTTPS    bool
}

// mpComputerStatus matches the JSON emitted by statusCommand. FullScanEndTime
// is an RFC 3339 string, empty when the host was never fully scanned.
type mpComputerStatus struct {
	AntivirusEnabled          bool   `json:"AntivirusEnabled"`
	RealTimeProtectionEnabled bool   `json:"RealTimeProtectionEnabled"`
	AntivirusSignatureAge     int    `json:"AntivirusSignatureAge"`
	FullScanEndTime           string `json:"FullScanEndTime"`
}

// ProtectionStatus runs Get-MpComputerStatus on the host and maps its output.
func (q *WinRMQuerier) ProtectionStatus(ctx context.Context, host string) (ProtectionStatus, error) {
	out, err := q.run(ctx, host, statusCommand)
	if err != nil {
		return ProtectionStatus{}, err
	}
	return parseStatusOutput(out)
}

// ThreatCount runs Get-MpThreatDetection on the host and returns the number of
// detections it reported.
func (q *WinRMQuerier) ThreatCount(ctx context.Context, host string) (int, error) {
	out, err := q.run(ctx, host, threatCommand)
	if err != nil {
		return 0, err
	}
	return parseThreatOutput(out)
}

func parseStatusOutput(out string) (ProtectionStatus, error) {
	var raw mpComputerStatus
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &raw); err != nil {
		return ProtectionStatus{}, fmt.Errorf("decoding status output: %w", err)
	}

	status := ProtectionStatus{
		AntivirusEnabled:          raw.AntivirusEnabled,
		RealTimeProtectionEnabled: raw.RealTimeProtectionEnabled,
		SignatureAgeDays:          raw.AntivirusSignatureAge,
	}
	if raw.FullScanEndTime != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.FullScanEndTime)
		if err != nil {
			return ProtectionStatus{}, fmt.Errorf("decoding scan time %q: %w", raw.FullScanEndTime, err)
		}
		status.FullScanEndTime = &t
	}
	return status, nil
}

func parseThreatOutput(out string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("decoding threat count %q: %w", strings.TrimSpace(out), err)
	}
	return count, nil
}

func (q *WinRMQuerier) run(ctx context.Context, host, command string) (string, error) {
	endpoint := winrm.NewEndpoint(host, q.Port, q.HTTPS, false, nil, nil, nil, q.Timeout)
	client, err := winrm.NewClient(endpoint, q.User, q.Password)
	if err != nil {
		return "", fmt.Errorf("creating winrm client: %w", err)
	}

	stdout, stderr, code, err := client.RunWithContextWithString(ctx, winrm.Powershell(command), "")
	if err != nil {
		return "", fmt.Errorf("running remote command: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("remote command exited %d: %s", code, strings.TrimSpace(stderr))
	}
	return stdout, nil
}
