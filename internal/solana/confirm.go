package solana

import (
	"context"
	"fmt"
	"time"
)

// StatusSource is the read surface PollingConfirmer needs. *HTTPClient
// satisfies it.
type StatusSource interface {
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)
}

// PollingConfirmer confirms signatures by polling getSignatureStatuses.
// It is the fallback path for endpoints without a WebSocket port.
type PollingConfirmer struct {
	source     StatusSource
	commitment string
	interval   time.Duration
	timeout    time.Duration
}

// PollingConfirmerConfig configures PollingConfirmer behavior.
type PollingConfirmerConfig struct {
	// Commitment the signature must reach. Defaults to confirmed.
	Commitment string
	// Interval between status polls. Defaults to 2s.
	Interval time.Duration
	// Timeout bounds the whole wait. Defaults to 90s, roughly the
	// blockhash validity window.
	Timeout time.Duration
}

// NewPollingConfirmer creates a confirmer polling the given source.
func NewPollingConfirmer(source StatusSource, config *PollingConfirmerConfig) *PollingConfirmer {
	c := &PollingConfirmer{
		source:     source,
		commitment: CommitmentConfirmed,
		interval:   2 * time.Second,
		timeout:    90 * time.Second,
	}
	if config != nil {
		if config.Commitment != "" {
			c.commitment = config.Commitment
		}
		if config.Interval > 0 {
			c.interval = config.Interval
		}
		if config.Timeout > 0 {
			c.timeout = config.Timeout
		}
	}
	return c
}

// Confirm blocks until the signature reaches the configured commitment,
// the ledger reports an execution error, or the wait is exhausted.
func (c *PollingConfirmer) Confirm(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		statuses, err := c.source.GetSignatureStatuses(ctx, []string{signature})
		if err == nil && len(statuses) == 1 && statuses[0] != nil {
			status := statuses[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on ledger: %v", signature, status.Err)
			}
			if commitmentReached(status.ConfirmationStatus, c.commitment) {
				return nil
			}
		}
		// Unknown signature or transient poll error: keep waiting until
		// the deadline decides.

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation of %s: %w", signature, ctx.Err())
		case <-ticker.C:
		}
	}
}

// commitmentReached reports whether got satisfies want on the
// processed < confirmed < finalized ladder.
func commitmentReached(got, want string) bool {
	rank := map[string]int{
		CommitmentProcessed: 1,
		CommitmentConfirmed: 2,
		CommitmentFinalized: 3,
	}
	g, ok := rank[got]
	if !ok {
		return false
	}
	return g >= rank[want]
}

var _ Confirmer = (*PollingConfirmer)(nil)
