// Package declfile reads declaration files into a decl.Graph.
//
// A declaration file lists the classes, properties and type aliases of one
// module in TOML or YAML. Both formats share one schema:
//
//	module = "app"
//
//	[[class]]
//	fqname = "app.Api"
//	kind = "interface"
//
//	  [class.companion]
//
//	    [[class.companion.property]]
//	    name = "VERSION"
//	    annotations = ["field:kotlin.jvm.JvmField"]
//
// Malformed keywords are reported as diagnostics; syntax errors are errors.
package declfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a declaration file.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown declaration file format")

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatTOML, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// File is the decoded form of one declaration file.
type File struct {
	Module      string           `toml:"module" yaml:"module"`
	Classes     []ClassEntry     `toml:"class" yaml:"class"`
	Properties  []PropertyEntry  `toml:"property" yaml:"property"`
	TypeAliases []TypeAliasEntry `toml:"typealias" yaml:"typealias"`
}

// ClassEntry describes a class. Top-level classes need fqname (or package
// and name); nested classes derive it from their outer class.
type ClassEntry struct {
	FqName      string          `toml:"fqname" yaml:"fqname"`
	Package     string          `toml:"package" yaml:"package"`
	Name        string          `toml:"name" yaml:"name"`
	Kind        string          `toml:"kind" yaml:"kind"`
	Annotations []string        `toml:"annotations" yaml:"annotations"`
	Companion   *CompanionEntry `toml:"companion" yaml:"companion"`
	Properties  []PropertyEntry `toml:"property" yaml:"property"`
	Nested      []ClassEntry    `toml:"nested" yaml:"nested"`
}

// CompanionEntry describes the companion object of a class.
type CompanionEntry struct {
	Name        string          `toml:"name" yaml:"name"`
	Annotations []string        `toml:"annotations" yaml:"annotations"`
	Properties  []PropertyEntry `toml:"property" yaml:"property"`
}

// PropertyEntry describes a property.
type PropertyEntry struct {
	Name        string   `toml:"name" yaml:"name"`
	Package     string   `toml:"package" yaml:"package"`
	Kind        string   `toml:"kind" yaml:"kind"`
	Visibility  string   `toml:"visibility" yaml:"visibility"`
	Modality    string   `toml:"modality" yaml:"modality"`
	Mutable     bool     `toml:"mutable" yaml:"mutable"`
	Delegated   bool     `toml:"delegated" yaml:"delegated"`
	Const       bool     `toml:"const" yaml:"const"`
	NoField     bool     `toml:"no_field" yaml:"no_field"`
	Annotations []string `toml:"annotations" yaml:"annotations"`
	// Moved marks a property read back from a compiled artifact whose
	// metadata carries the moved-from-interface-companion flag.
	Moved bool `toml:"moved_from_interface_companion" yaml:"moved_from_interface_companion"`
}

// TypeAliasEntry describes a package-level type alias.
type TypeAliasEntry struct {
	Name        string   `toml:"name" yaml:"name"`
	Package     string   `toml:"package" yaml:"package"`
	Annotations []string `toml:"annotations" yaml:"annotations"`
}

// Decode reads one file in the given format. Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		meta, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return nil, ErrUnknownFormat
	}
	return &f, nil
}

// ReadFile decodes the file at path, picking the format by extension.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
