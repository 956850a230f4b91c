package pointclock

import (
	"github.com/rs/zerolog"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/codec"
	"github.com/revent-clocks/reclock/primitives"
)

// PointClockUpdater holds the secret seed for a PointClock and issues
// certificates revealing earlier chain positions, optionally signed under
// the chain's scalar at that depth. It must never be serialized over an
// untrusted channel; its Pack format exists for local persistence only.
type PointClockUpdater struct {
	seed     []byte
	lifetime int32
	time     int32
	logger   zerolog.Logger
}

// Option configures a PointClockUpdater at construction or unpack time.
type Option func(*PointClockUpdater)

// WithLogger attaches a logger the updater uses for Debug-level advancement
// traces. Without it, advancing is silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(u *PointClockUpdater) {
		u.logger = logger
	}
}

func newUpdater(seed []byte, lifetime int32, opts ...Option) *PointClockUpdater {
	u := &PointClockUpdater{seed: seed, lifetime: lifetime, time: -1, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Advance issues a bare certificate for time t: t must be strictly greater
// than the last time this updater issued and no greater than the chain's
// lifetime.
func (u *PointClockUpdater) Advance(t int32) (Timestamp, error) {
	if t <= u.time {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrUpdateNotStrictlyLater)
	}
	if t > u.lifetime {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrTimeExceedsLifetime)
	}

	s0 := primitives.SeedFromScalar(u.seed)
	p0 := primitives.DerivePoint(s0)
	point, err := primitives.RecursiveNextPoint(p0, int(u.lifetime-t))
	if err != nil {
		return Timestamp{}, clockerr.Wrap(err)
	}

	u.time = t
	u.logger.Debug().Int32("time", t).Int32("lifetime", u.lifetime).Msg("advanced point clock")
	return Timestamp{Time: t, Point: point}, nil
}

// AdvanceAndSign issues a certificate for time t signed under the chain's
// scalar at that depth, binding it to message.
func (u *PointClockUpdater) AdvanceAndSign(t int32, message []byte) (Timestamp, error) {
	if len(message) == 0 {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrEmptyMessage)
	}
	if t <= u.time {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrUpdateNotStrictlyLater)
	}
	if t > u.lifetime {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrTimeExceedsLifetime)
	}

	s0 := primitives.SeedFromScalar(u.seed)
	scalarT := primitives.RecursiveNextScalar(s0, int(u.lifetime-t))
	pointT := primitives.DerivePoint(scalarT)
	signature, err := primitives.Sign(scalarT, message)
	if err != nil {
		return Timestamp{}, err
	}

	u.time = t
	u.logger.Debug().Int32("time", t).Int32("lifetime", u.lifetime).Msg("advanced and signed point clock")
	return Timestamp{Time: t, Point: pointT, Message: message, Signature: signature}, nil
}

// Lifetime returns the chain's declared lifetime.
func (u *PointClockUpdater) Lifetime() int32 {
	return u.lifetime
}

// Pack encodes the updater's secret state:
// tag || lifetime(u32) || seed_len(u16) || seed.
func (u *PointClockUpdater) Pack() []byte {
	w := codec.NewWriter(codec.TagPointClockUpdater)
	w.PutUint32(uint32(u.lifetime))
	w.PutLenPrefixed16(u.seed)
	return w.Bytes()
}

// UnpackUpdater decodes an updater packed by Pack. The returned updater's
// advancement cursor starts at -1, matching a freshly constructed one.
func UnpackUpdater(data []byte, opts ...Option) (*PointClockUpdater, error) {
	r := codec.NewReader(data)
	if err := r.ReadTag(codec.TagPointClockUpdater); err != nil {
		return nil, err
	}
	lifetime, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	seed, err := r.ReadLenPrefixed16()
	if err != nil {
		return nil, err
	}
	if !r.AtEnd() {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("trailing bytes after PointClockUpdater payload"))
	}
	return newUpdater(seed, int32(lifetime), opts...), nil
}
