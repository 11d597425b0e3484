package probe

import (
	"context"
	"time"
)

// ProtectionStatus is the raw answer to the "current protection status" query,
// before it is mapped into a status record.
type ProtectionStatus struct {
	AntivirusEnabled          bool
	RealTimeProtectionEnabled bool
	SignatureAgeDays          int
	FullScanEndTime           *time.Time
}

// Querier answers the two status queries for a single host. Implementations
// wrap whatever remote transport reaches the host's Defender instance.
type Querier interface {
	// ProtectionStatus fetches the current protection state of the host.
	ProtectionStatus(ctx context.Context, host string) (ProtectionStatus, error)

	// ThreatCount fetches the number of detected threats on the host.
	ThreatCount(ctx context.Context, host string) (int, error)
}
