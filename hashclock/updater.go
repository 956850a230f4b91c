package hashclock

import (
	"github.com/rs/zerolog"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/codec"
	"github.com/revent-clocks/reclock/primitives"
)

// HashClockUpdater holds the secret seed for a HashClock and issues
// certificates revealing earlier chain positions. It must never be
// serialized over an untrusted channel; its Pack format exists for local
// persistence only.
type HashClockUpdater struct {
	seed     []byte
	lifetime int32
	time     int32
	logger   zerolog.Logger
}

// Option configures a HashClockUpdater at construction or unpack time.
type Option func(*HashClockUpdater)

// WithLogger attaches a logger the updater uses for Debug-level advancement
// traces. Without it, advancing is silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(u *HashClockUpdater) {
		u.logger = logger
	}
}

func newUpdater(seed []byte, lifetime int32, opts ...Option) *HashClockUpdater {
	u := &HashClockUpdater{seed: seed, lifetime: lifetime, time: -1, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Advance issues a certificate for time t. t must be strictly greater than
// the last time this updater issued and no greater than the chain's
// lifetime.
func (u *HashClockUpdater) Advance(t int32) (Timestamp, error) {
	if t <= u.time {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrUpdateNotStrictlyLater)
	}
	if t > u.lifetime {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrTimeExceedsLifetime)
	}
	digest := primitives.RecursiveHash(u.seed, int(u.lifetime-t))
	u.time = t
	u.logger.Debug().Int32("time", t).Int32("lifetime", u.lifetime).Msg("advanced hash clock")

	var d [32]byte
	copy(d[:], digest)
	return Timestamp{Time: t, Digest: d}, nil
}

// Lifetime returns the chain's declared lifetime.
func (u *HashClockUpdater) Lifetime() int32 {
	return u.lifetime
}

// Pack encodes the updater's secret state:
// tag || lifetime(u32) || seed_len(u16) || seed.
func (u *HashClockUpdater) Pack() []byte {
	w := codec.NewWriter(codec.TagHashClockUpdater)
	w.PutUint32(uint32(u.lifetime))
	w.PutLenPrefixed16(u.seed)
	return w.Bytes()
}

// UnpackUpdater decodes an updater packed by Pack. The returned updater's
// advancement cursor starts at -1, matching a freshly constructed one; it is
// not preserved across the wire.
func UnpackUpdater(data []byte, opts ...Option) (*HashClockUpdater, error) {
	r := codec.NewReader(data)
	if err := r.ReadTag(codec.TagHashClockUpdater); err != nil {
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
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("trailing bytes after HashClockUpdater payload"))
	}
	return newUpdater(seed, int32(lifetime), opts...), nil
}
