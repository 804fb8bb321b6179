package kernel

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/taxonomy"
)

// Config holds the settings of a Kernel. It is fixed at construction.
type Config struct {
	// Precision is the linear tolerance: gaps below it are ignored, vertex
	// tolerances are set to it and extrusions must be at least this deep.
	Precision float64

	// Deflection is the chordal deviation used when curves are sampled
	// into parameter-space curves.
	Deflection float64

	// Logger overrides the package logger. nil means brep.Logger().
	Logger *slog.Logger
}

// Option configures a Kernel during creation.
//
// Example:
//
//	k := kernel.New(
//	    kernel.WithPrecision(1e-6),
//	    kernel.WithLogger(slog.Default()),
//	)
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Precision:  brep.DefaultPrecision,
		Deflection: 1e-3,
	}
}

// WithPrecision sets the linear tolerance. Non-positive values are ignored.
func WithPrecision(p float64) Option {
	return func(c *Config) {
		if p > 0 {
			c.Precision = p
		}
	}
}

// WithDeflection sets the sampling deflection for parameter-space curves.
// Non-positive values are ignored.
func WithDeflection(d float64) Option {
	return func(c *Config) {
		if d > 0 {
			c.Deflection = d
		}
	}
}

// WithLogger routes the kernel's messages to l instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Kernel converts taxonomy items into shapes. A Kernel is immutable and
// safe for concurrent use; every conversion call carries its own state.
type Kernel struct {
	cfg Config
}

// New creates a kernel.
func New(opts ...Option) *Kernel {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Kernel{cfg: cfg}
}

// Config returns the kernel settings.
func (k *Kernel) Config() Config { return k.cfg }

// Precision returns the linear tolerance.
func (k *Kernel) Precision() float64 { return k.cfg.Precision }

func (k *Kernel) logger() *slog.Logger {
	if k.cfg.Logger != nil {
		return k.cfg.Logger
	}
	return brep.Logger()
}

// ConvertOption configures a single conversion call.
type ConvertOption func(*callOptions)

type callOptions struct {
	helper    *FacesetHelper
	placement *brep.Matrix4
}

// WithFacesetHelper builds polyhedral loops through h, which shares
// vertices and edges between the faces of one call and collects the
// non-manifold flag.
func WithFacesetHelper(h *FacesetHelper) ConvertOption {
	return func(o *callOptions) {
		o.helper = h
	}
}

// WithPlacement sets the placement recorded in the conversion result. The
// shape itself is not moved.
func WithPlacement(m brep.Matrix4) ConvertOption {
	return func(o *callOptions) {
		o.placement = &m
	}
}

// conversion is the state of one top-level call. Nested items get a copy
// whose logger names their own instance.
type conversion struct {
	k          *Kernel
	p          float64
	deflection float64
	helper     *FacesetHelper
	placement  brep.Matrix4

	// profile closes every loop converted below an extrusion basis.
	profile bool

	base *slog.Logger
	log  *slog.Logger
}

func (k *Kernel) begin(item taxonomy.Item, opts []ConvertOption) *conversion {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	c := &conversion{
		k:          k,
		p:          k.cfg.Precision,
		deflection: k.cfg.Deflection,
		helper:     o.helper,
		placement:  brep.Identity4(),
		base:       k.logger(),
	}
	if o.placement != nil {
		c.placement = *o.placement
	}
	c.log = c.base.With("instance", instanceOf(item))
	return c
}

// at returns a copy of c logging on behalf of item.
func (c *conversion) at(item taxonomy.Item) *conversion {
	cc := *c
	cc.log = c.base.With("instance", instanceOf(item))
	return &cc
}

// recover turns a panic raised during the conversion into ErrInternal.
// It must be deferred directly.
func (c *conversion) recover(err *error) {
	if r := recover(); r != nil {
		c.log.Error("internal error", "panic", r)
		*err = fmt.Errorf("%w: %v", ErrInternal, r)
	}
}

// nonManifold records an inconsistent triangulation.
func (c *conversion) nonManifold() {
	if c.helper != nil {
		c.helper.NonManifold = true
	}
}

func instanceOf(item taxonomy.Item) string {
	if item == nil {
		return ""
	}
	return item.Instance()
}

// fail wraps a sentinel with the failing item.
func fail(item taxonomy.Item, sentinel error) error {
	if id := instanceOf(item); id != "" {
		return fmt.Errorf("%s %s: %w", item.Kind(), id, sentinel)
	}
	return fmt.Errorf("%s: %w", item.Kind(), sentinel)
}
