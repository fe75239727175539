package registration

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/nova-graduation/backend/config"
)

const tokenBytes = 32

// Issuer mints stage tokens. Each token is 32 random bytes hex-encoded,
// stamped with an expiry according to the configured policy: rolling tokens
// expire TTL after issuance, fixed tokens all share one deadline.
type Issuer struct {
	mode     string
	ttl      time.Duration
	deadline time.Time
	now      func() time.Time
}

// NewIssuer creates an issuer from the token policy config.
func NewIssuer(cfg config.TokenConfig) *Issuer {
	return &Issuer{
		mode:     cfg.Mode,
		ttl:      cfg.TTL,
		deadline: cfg.Deadline,
		now:      time.Now,
	}
}

// Issue returns a fresh token and its expiry.
func (i *Issuer) Issue() (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	switch i.mode {
	case config.TokenModeFixed:
		return token, i.deadline, nil
	default:
		return token, i.now().Add(i.ttl), nil
	}
}
