// Package datafile reads and writes the Hugo data file holding the issue taxonomy.
package datafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

// Encode writes t as YAML. Keys follow struct field order and non-ASCII text
// is emitted literally. An empty taxonomy encodes as "[]".
func Encode(w io.Writer, t taxonomy.Taxonomy) error {
	if t == nil {
		t = taxonomy.Taxonomy{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Marshal returns the encoded form of t.
func Marshal(t taxonomy.Taxonomy) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes t and replaces the file at path, creating parent directories.
// Encoding completes before the file is touched, so an encode failure leaves
// any previous file in place.
func Write(path string, t taxonomy.Taxonomy) error {
	data, err := Marshal(t)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode data file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.IOError("create data directory").
			WithCause(err).
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- the data file is published by the static site.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.IOError("write data file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// Decode parses a taxonomy document.
func Decode(r io.Reader) (taxonomy.Taxonomy, error) {
	var t taxonomy.Taxonomy
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return taxonomy.Taxonomy{}, nil
		}
		return nil, err
	}
	if t == nil {
		t = taxonomy.Taxonomy{}
	}
	return t, nil
}

// Load reads a previously written data file. A missing file yields an empty taxonomy.
func Load(path string) (taxonomy.Taxonomy, error) {
	// #nosec G304 -- path comes from configuration.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return taxonomy.Taxonomy{}, nil
		}
		return nil, ferrors.IOError("open data file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	defer func() {
		_ = f.Close()
	}()

	t, err := Decode(f)
	if err != nil {
		return nil, ferrors.ValidationError(fmt.Sprintf("malformed data file %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return t, nil
}
