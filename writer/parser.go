package writer

import (
	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/trace"
)

// Parser parses option mask documents using the writer vocabulary.
//
// Parser is safe for concurrent use as long as its [trace.Sink] is.
type Parser struct {
	*mask.Parser

	sink trace.Sink
	bits Bits
}

type config struct {
	sink   trace.Sink
	extra  *mask.Registry
	logger log.Logger
	bits   Bits
}

// Option configures a [Parser].
type Option func(config) config

// WithSink sets the sink receiving the targets of trace entries. The default
// is [trace.Default]. A nil sink discards targets.
func WithSink(s trace.Sink) Option {
	return func(c config) config {
		if s == nil {
			s = trace.Discard
		}

		c.sink = s

		return c
	}
}

// WithRegistry adds the options of reg to the built-in vocabulary. Options in
// reg replace built-in options with the same name, except that trace entries
// are always handled as trace entries.
func WithRegistry(reg *mask.Registry) Option {
	return func(c config) config {
		c.extra = reg

		return c
	}
}

// WithBits sets the bit values of the built-in options.
func WithBits(b Bits) Option {
	return func(c config) config {
		c.bits = b

		return c
	}
}

// WithLogger sets the logger receiving per-entry diagnostics.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// NewParser returns a parser for the writer vocabulary.
func NewParser(opts ...Option) *Parser {
	cfg := config{
		sink: trace.Default,
		bits: DefaultBits(),
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	reg := mask.NewRegistry(cfg.bits.Vocabulary()...)
	reg.Merge(cfg.extra)

	p := &Parser{sink: cfg.sink, bits: cfg.bits}
	p.Parser = mask.New(reg,
		mask.WithSeed(cfg.bits.Members),
		mask.WithHandler(OptionTrace, p.trace),
		mask.WithLogger(cfg.logger),
	)

	return p
}

// Bits returns the bit values of the built-in options.
func (p *Parser) Bits() Bits { return p.bits }

// trace enables tracing. Without an argument list it also enables sub-call
// tracing; otherwise each comma-separated item of the argument is a target.
func (p *Parser) trace(st *mask.State, tok mask.Token) {
	st.Set(p.bits.Trace)

	if !tok.HasArg {
		st.Set(p.bits.TraceSubCalls)

		return
	}

	for target, err := range mask.List(tok.Arg) {
		if err != nil {
			st.Fail(err)

			return
		}

		st.Emit(target)
		p.sink.AddTarget(target)
	}
}
