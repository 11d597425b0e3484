package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/TheBigBear/Get-DefenderReport/internal/defender"
)

// DialFunc opens a TCP connection for the reachability check. Swapped out in
// tests.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// Config for a Prober. Zero values fall back to defaults.
type Config struct {
	Port        int           // port probed for reachability, default 5985
	Attempts    int           // reachability attempts, default 2
	DialTimeout time.Duration // per-attempt timeout, default 5s
}

// Prober checks one host for reachability and fetches its Defender status.
// A probe never fails upward: any per-host problem is logged as a warning and
// the probe reports no record.
type Prober struct {
	config  Config
	querier Querier
	dial    DialFunc
	log     *zap.Logger
}

// NewProber creates a Prober driving the given querier.
func NewProber(config Config, querier Querier, log *zap.Logger) *Prober {
	if config.Port == 0 {
		config.Port = 5985
	}
	if config.Attempts == 0 {
		config.Attempts = 2
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	return &Prober{
		config:  config,
		querier: querier,
		dial:    net.DialTimeout,
		log:     log,
	}
}

// SetDial overrides the reachability dialer. Test hook.
func (p *Prober) SetDial(dial DialFunc) {
	p.dial = dial
}

// Probe returns the host's status record, or nil when the host is unreachable
// or its status query failed. A record is never partially filled: either the
// status query succeeded and a full record comes back, or nothing does. The
// threat query alone is best effort and only blanks the threat field.
func (p *Prober) Probe(ctx context.Context, host string) *defender.StatusRecord {
	if !p.reachable(host) {
		p.log.Warn("host unreachable, skipping", zap.String("host", host))
		return nil
	}

	status, err := p.querier.ProtectionStatus(ctx, host)
	if err != nil {
		p.log.Warn("status query failed, skipping host",
			zap.String("host", host), zap.Error(err))
		return nil
	}

	record := &defender.StatusRecord{
		Host:                      host,
		AntivirusEnabled:          status.AntivirusEnabled,
		RealTimeProtectionEnabled: status.RealTimeProtectionEnabled,
		SignatureAgeDays:          status.SignatureAgeDays,
		LastFullScan:              status.FullScanEndTime,
	}

	count, err := p.querier.ThreatCount(ctx, host)
	if err != nil {
		p.log.Warn("threat query failed, reporting no threat data",
			zap.String("host", host), zap.Error(err))
	} else {
		record.ThreatsFound = &count
	}

	return record
}

func (p *Prober) reachable(host string) bool {
	address := net.JoinHostPort(host, strconv.Itoa(p.config.Port))
	for i := 0; i < p.config.Attempts; i++ {
		conn, err := p.dial("tcp", address, p.config.DialTimeout)
		if err == nil {
			conn.Close()
			return true
		}
	}
	return false
}
