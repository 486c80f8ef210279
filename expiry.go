package twitchauth

import (
	"math"
	"time"
)

// NeverExpires is the remaining lifetime reported for tokens issued without
// a lifetime.
const NeverExpires = time.Duration(math.MaxInt64)

// Expiry tracks a token's lifetime as (creation instant, total lifetime).
// Remaining time is computed against locally elapsed time rather than an
// absolute deadline, so it is immune to wall-clock disagreement with the
// provider.
type Expiry struct {
	createdAt time.Time
	lifetime  time.Duration
	never     bool
}

func newExpiry(lifetime time.Duration) Expiry {
	return newExpiryAt(time.Now(), lifetime)
}

func newExpiryAt(now time.Time, lifetime time.Duration) Expiry {
	return Expiry{createdAt: now, lifetime: lifetime}
}

func neverExpiring() Expiry {
	return Expiry{createdAt: time.Now(), lifetime: NeverExpires, never: true}
}

// expiryFromSeconds builds an Expiry from a token response's optional
// expires_in field. Absence means the token never expires.
func expiryFromSeconds(secs *int64) Expiry {
	if secs == nil {
		return neverExpiring()
	}
	return newExpiry(time.Duration(*secs) * time.Second)
}

// expiryFromValidation builds an Expiry from a validation response, where a
// zero expires_in marks a never-expiring token.
func expiryFromValidation(secs int64) Expiry {
	if secs == 0 {
		return neverExpiring()
	}
	return newExpiry(time.Duration(secs) * time.Second)
}

// Remaining reports the lifetime left on the token, floored at zero.
// Never-expiring tokens always report NeverExpires.
func (e Expiry) Remaining() time.Duration {
	return e.RemainingAt(time.Now())
}

// RemainingAt is Remaining evaluated at an arbitrary instant.
func (e Expiry) RemainingAt(now time.Time) time.Duration {
	if e.never {
		return NeverExpires
	}

	rem := e.lifetime - now.Sub(e.createdAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// Never reports whether the token was issued without a lifetime.
func (e Expiry) Never() bool { return e.never }
