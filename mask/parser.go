package mask

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"strconv"

	"github.com/ardnew/diagmask/log"
)

// Handler applies an entry in place of the default resolution of its name.
// Handlers are installed per option name with [WithHandler] and are called
// for every entry with that name, with or without an argument. A handler
// records its effect on st.
type Handler func(st *State, tok Token)

// Parser converts option mask documents into a [Result].
//
// A Parser is immutable once built and safe for concurrent use. Every call to
// [Parser.Parse] starts from a fresh [State], so parsing the same document
// always yields the same result.
type Parser struct {
	registry *Registry
	handlers map[string]Handler
	logger   log.Logger
	seed     Mask
}

// Option configures a [Parser].
type Option func(Parser) Parser

// New returns a parser resolving names against reg. A nil reg is treated as
// an empty registry, so only integer literals resolve.
func New(reg *Registry, opts ...Option) *Parser {
	p := Parser{registry: reg}

	for _, opt := range opts {
		p = opt(p)
	}

	if p.registry == nil {
		p.registry = new(Registry)
	}

	return &p
}

// WithSeed sets the mask every parse starts from.
func WithSeed(seed Mask) Option {
	return func(p Parser) Parser {
		p.seed = seed

		return p
	}
}

// WithHandler installs h for entries named name. A nil h removes any handler
// installed for name.
func WithHandler(name string, h Handler) Option {
	return func(p Parser) Parser {
		handlers := maps.Clone(p.handlers)
		if handlers == nil {
			handlers = make(map[string]Handler)
		}

		if h == nil {
			delete(handlers, name)
		} else {
			handlers[name] = h
		}

		p.handlers = handlers

		return p
	}
}

// WithLogger sets the logger receiving per-entry diagnostics. Resolved
// entries are logged at trace level and failures at debug level.
func WithLogger(l log.Logger) Option {
	return func(p Parser) Parser {
		p.logger = l

		return p
	}
}

// Registry returns the registry names are resolved against.
func (p *Parser) Registry() *Registry { return p.registry }

// Seed returns the mask every parse starts from.
func (p *Parser) Seed() Mask { return p.seed }

// Describe writes the help text of the parser's registry to w.
func (p *Parser) Describe(w io.Writer) error { return p.registry.Describe(w) }

// Parse parses doc. Unknown names do not stop parsing; they clear Result.OK
// and the remaining entries are still applied. An unclosed '(' ends parsing
// at the entry that opened it.
func (p *Parser) Parse(doc string) Result {
	st := &State{Mask: p.seed, OK: true, parser: p}

	for tok, err := range Entries(doc) {
		if err != nil {
			st.Fail(err)

			break
		}

		if tok.Name == "" {
			continue
		}

		if h, ok := p.handlers[tok.Name]; ok {
			h(st, tok)

			continue
		}

		st.Resolve(tok.Name)
	}

	return Result{
		Mask:    st.Mask,
		OK:      st.OK,
		Targets: st.Targets,
		Errors:  st.Errors,
	}
}

// State is the mutable state of a single parse, passed to each [Handler].
type State struct {
	parser *Parser

	// Targets holds the strings recorded with [State.Emit].
	Targets []string
	// Errors holds every error recorded with [State.Fail].
	Errors []error
	// Mask is the accumulated bitmask.
	Mask Mask
	// OK is false once any entry has failed.
	OK bool
}

// Set ORs bits into the mask.
func (st *State) Set(bits Mask) { st.Mask |= bits }

// Fail records err and marks the parse as failed.
func (st *State) Fail(err error) {
	st.OK = false
	st.Errors = append(st.Errors, err)

	st.parser.logger.Debug("option rejected", slog.Any("error", err))
}

// Resolve ORs in the bit registered for name, or the value of name read as
// an integer literal. If neither applies the parse fails. Resolve reports
// whether name was resolved.
func (st *State) Resolve(name string) bool {
	if bit, ok := st.parser.registry.Lookup(name); ok {
		st.Set(bit)
		st.parser.logger.Trace("option",
			slog.String("name", name), slog.Any("bit", bit))

		return true
	}

	n, err := ParseLiteral(name)
	if err != nil {
		st.Fail(ErrUnknownOption.With(slog.String("option", name)).
			Wrap(quoted(name)))

		return false
	}

	st.Set(n)
	st.parser.logger.Trace("literal",
		slog.String("name", name), slog.Any("bit", n))

	return true
}

// Emit records target in the parse result.
func (st *State) Emit(target string) {
	st.Targets = append(st.Targets, target)
	st.parser.logger.Trace("target", slog.String("target", target))
}

// Result is the outcome of [Parser.Parse].
type Result struct {
	// Targets lists the strings emitted by handlers, in document order.
	Targets []string `json:"targets,omitempty" msgpack:"targets,omitempty" yaml:"targets,omitempty"`
	// Errors lists every failure, in document order.
	Errors []error `json:"-" msgpack:"-" yaml:"-"`
	// Mask is the union of every resolved entry and the parser's seed.
	Mask Mask `json:"mask" msgpack:"mask" yaml:"mask"`
	// OK reports whether every entry resolved.
	OK bool `json:"ok" msgpack:"ok" yaml:"ok"`
}

// Err returns the errors of r joined, or nil if r has none.
func (r Result) Err() error { return errors.Join(r.Errors...) }

type quoted string

func (q quoted) Error() string { return strconv.Quote(string(q)) }
