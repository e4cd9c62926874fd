// Package vocab loads option vocabularies from YAML and TOML files.
//
// A vocabulary file lists options to add to a [mask.Registry]:
//
//	options:
//	  - name: timing
//	    bit: 0x100
//	    description: Display elapsed time per phase
//
// The same document in TOML:
//
//	[[options]]
//	name = "timing"
//	bit = 0x100
//	description = "Display elapsed time per phase"
//
// A bit may be written as an integer or as a string holding an integer
// literal in C notation ("0x100", "0400", "256").
package vocab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/pkg"
)

// Format identifies the encoding of a vocabulary file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats returns the supported formats.
func Formats() []Format { return []Format{FormatYAML, FormatTOML} }

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", pkg.ErrInvalidFormat.Wrapf(
			"%s: unknown vocabulary extension (want one of %v)", path, Formats())
	}
}

type document struct {
	Options []entry `toml:"options" yaml:"options"`
}

type entry struct {
	Bit         any    `toml:"bit"         yaml:"bit"`
	Name        string `toml:"name"        yaml:"name"`
	Description string `toml:"description" yaml:"description"`
}

// Load reads the vocabulary file at path.
func Load(path string) ([]mask.OptionEntry, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	entries, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return entries, nil
}

// Decode reads a vocabulary document in the given format from r.
func Decode(r io.Reader, format Format) ([]mask.OptionEntry, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).
			Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, pkg.ErrParse.Wrap(err)
		}

	case FormatTOML:
		meta, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, pkg.ErrParse.Wrap(err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, pkg.ErrParse.Wrapf("unknown key %q", undecoded[0].String())
		}

	default:
		return nil, pkg.ErrInvalidFormat.Wrapf(
			"%q (want one of %v)", format, Formats())
	}

	out := make([]mask.OptionEntry, 0, len(doc.Options))

	for i, e := range doc.Options {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, pkg.ErrVocabulary.Wrapf("option %d: missing name", i+1)
		}

		if strings.ContainsAny(name, "(),:") {
			return nil, pkg.ErrVocabulary.Wrapf(
				"option %q: name contains a delimiter", name)
		}

		bit, err := decodeBit(e.Bit)
		if err != nil {
			return nil, pkg.ErrVocabulary.Wrapf("option %q: %w", name, err)
		}

		out = append(out, mask.OptionEntry{
			Name:        name,
			Bit:         bit,
			Description: e.Description,
		})
	}

	return out, nil
}

// decodeBit converts a decoded bit value to a mask. Negative values and
// values that do not fit are rejected.
func decodeBit(v any) (mask.Mask, error) {
	var (
		n   uint64
		err error
	)

	switch b := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing bit")
	case string:
		return mask.ParseLiteral(strings.TrimSpace(b))
	case int:
		n, err = safecast.Conv[uint64](b)
	case int64:
		n, err = safecast.Conv[uint64](b)
	case uint:
		n = uint64(b)
	case uint64:
		n = b
	case float64:
		// TOML and YAML decode 4.0 as a float; accept it only if whole.
		if b != math.Trunc(b) || math.Abs(b) >= math.MaxInt64 {
			return 0, fmt.Errorf("bit %v: not an integer", v)
		}

		n, err = safecast.Conv[uint64](int64(b))
	default:
		return 0, fmt.Errorf("bit: unsupported type %T", v)
	}

	if err != nil {
		return 0, fmt.Errorf("bit %v: %w", v, err)
	}

	return mask.Mask(n), nil
}

// Apply registers entries in reg, replacing options with the same name.
func Apply(reg *mask.Registry, entries []mask.OptionEntry) {
	for _, e := range entries {
		reg.Register(e.Name, e.Bit, e.Description)
	}
}

// LoadRegistry loads every file in paths, in order, into a new registry.
// Options in later files replace options of the same name in earlier ones.
func LoadRegistry(paths ...string) (*mask.Registry, error) {
	reg := new(mask.Registry)

	for path := range slices.Values(paths) {
		entries, err := Load(path)
		if err != nil {
			return nil, err
		}

		Apply(reg, entries)
	}

	return reg, nil
}
