package packer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Format selects the pack output encoding.
type Format string

// Supported output formats.
const (
	// FormatBundle is a single self-installing Python stream.
	FormatBundle Format = "bundle"
	// FormatJSON is the record list as a JSON array.
	FormatJSON Format = "json"
	// FormatYAML is the record list as a YAML sequence.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat marks an output format outside the supported set.
var ErrUnknownFormat = errors.New("unknown pack format")

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatBundle, FormatJSON, FormatYAML:
		return Format(name), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatBundle:
		return writeBundle(w, records)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encode json pack: %w", err)
		}

		return nil
	case FormatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode yaml pack: %w", err)
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write yaml pack: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteCompressed is Write behind an LZ4 frame.
func WriteCompressed(w io.Writer, format Format, records []Record) error {
	frame := lz4.NewWriter(w)

	if err := Write(frame, format, records); err != nil {
		frame.Close()

		return err
	}

	if err := frame.Close(); err != nil {
		return fmt.Errorf("close lz4 frame: %w", err)
	}

	return nil
}

// ReadCompressed decodes an LZ4-framed JSON pack back into records, the
// inverse of WriteCompressed with FormatJSON.
func ReadCompressed(r io.Reader) ([]Record, error) {
	var records []Record

	decoder := json.NewDecoder(lz4.NewReader(r))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode compressed pack: %w", err)
	}

	return records, nil
}
