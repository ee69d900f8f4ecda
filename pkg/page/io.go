package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/matzehuels/slotframe/pkg/errors"
)

// Format is a page file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported page file %q (want .toml, .yaml or .json)", filepath.Base(path))
}

// ParseFormat parses a format name such as "yml" or "JSON".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported page format %q", s)
}

// Read decodes a page from r and validates it.
// Decoding failures are reported as errors.ErrCodeInvalidPage.
func Read(r io.Reader, f Format) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return Unmarshal(data, f)
}

// Unmarshal decodes and validates a page.
func Unmarshal(data []byte, f Format) (*Page, error) {
	p, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Decode parses a page without validating it, for callers that complete the
// page (its name, usually) before calling [Page.Validate].
func Decode(data []byte, f Format) (*Page, error) {
	var p Page
	var err error
	switch f {
	case FormatTOML:
		_, err = toml.Decode(string(data), &p)
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatJSON:
		err = json.Unmarshal(data, &p)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported page format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPage, err, "decode %s page", f)
	}
	return &p, nil
}

// Marshal encodes p in the given format.
func Marshal(p *Page, f Format) ([]byte, error) {
	switch f {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported page format %q", f)
}

// Write encodes p to w.
func Write(w io.Writer, p *Page, f Format) error {
	data, err := Marshal(p, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Import reads the page file at path, picking the format from its extension.
// A page without a name takes the file name without extension.
func Import(path string) (*Page, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodePageNotFound, err, "page file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	p, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = nameFromPath(path)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Export writes p to path, picking the format from its extension.
func Export(p *Page, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(p, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
