package dawgs

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Variant selects which automaton a Config builds.
type Variant int

const (
	VariantDAWG Variant = iota
	VariantCDAWG
)

// TokenWidth is the configured bit width of a single token (spec §6).
// The package itself always works with uint32 tokens internally; a
// 16-bit width only constrains what AddToken will accept, so a corpus
// built for a small vocabulary can't silently absorb out-of-range
// tokens written by a misconfigured caller.
type TokenWidth int

const (
	TokenWidth16 TokenWidth = 16
	TokenWidth32 TokenWidth = 32
)

// DefaultSeparator is the reserved end-of-document token identifier
// used when a Config doesn't set WithSeparator explicitly.
const DefaultSeparator uint32 = 0xFFFFFFFF

// Config holds the build-time options recognized by the core (spec §6).
// It is constructed via NewConfig plus functional options, the same
// pattern the teacher's own package uses for optional behavior.
type Config struct {
	Variant       Variant
	TokenWidth    TokenWidth
	TrackCounts   bool
	NodeCapacity  int
	EdgeCapacity  int
	Separator     uint32
	Logger        *zap.Logger
}

type Option func(*Config)

// NewConfig builds a Config from defaults plus the given options:
// DAWG variant, 32-bit tokens, counts tracked, RAM-sized (zero
// capacity, meaning "use a growable RAM store"), the default separator,
// and a no-op logger.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		Variant:     VariantDAWG,
		TokenWidth:  TokenWidth32,
		TrackCounts: true,
		Separator:   DefaultSeparator,
		Logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithVariant(v Variant) Option {
	return func(c *Config) { c.Variant = v }
}

func WithTokenWidth(w TokenWidth) Option {
	return func(c *Config) { c.TokenWidth = w }
}

func WithTrackCounts(track bool) Option {
	return func(c *Config) { c.TrackCounts = track }
}

// WithDiskCapacity sets Config.NodeCapacity/EdgeCapacity (spec §6
// node_capacity/edge_capacity). Builds always run in RAM: NewDawg uses
// nonzero values only to presize its RAM arenas, and NewCdawg ignores
// them. The graph reaches disk only through SaveTo.
func WithDiskCapacity(nodeCapacity, edgeCapacity int) Option {
	return func(c *Config) {
		c.NodeCapacity = nodeCapacity
		c.EdgeCapacity = edgeCapacity
	}
}

func WithSeparator(sep uint32) Option {
	return func(c *Config) { c.Separator = sep }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// EstimateCapacity turns an expected token count into the node/edge
// capacity estimates spec §6 calls for, using the ratios an implementer
// would derive empirically from corpus statistics. A DAWG over n tokens
// has at most 2n-1 nodes and at most 3n-4 edges (classical bound); a
// CDAWG has substantially fewer of both since non-branching chains
// collapse, so its ratios are smaller.
func EstimateCapacity(variant Variant, nTokens int) (nodeCapacity, edgeCapacity int) {
	switch variant {
	case VariantCDAWG:
		return nTokens + 16, 2 * (nTokens + 16)
	default:
		return 2*nTokens + 16, 3*nTokens + 16
	}
}

// maxToken reports the largest token value a TokenWidth admits.
func (w TokenWidth) maxToken() uint64 {
	switch w {
	case TokenWidth16:
		return 1<<16 - 1
	case TokenWidth32:
		return 1<<32 - 1
	default:
		return 1<<32 - 1
	}
}

// ValidateToken reports an error if t exceeds the configured
// TokenWidth's range (spec §6 "width must match the graph's configured
// token width").
func (c *Config) ValidateToken(t uint32) error {
	if uint64(t) > c.TokenWidth.maxToken() {
		return errors.Wrapf(ErrInvalidArgument, "token %d exceeds configured width %d", t, c.TokenWidth)
	}
	return nil
}
