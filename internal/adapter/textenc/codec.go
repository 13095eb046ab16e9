// Package textenc converts file bytes to text and back under a fixed encoding.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	ErrInvalidUTF8    = errors.New("invalid UTF-8 content")
	ErrInvalidContent = errors.New("malformed byte sequence")
)

// New returns the codec for an encoding label. An empty label means UTF-8.
func New(label string) (*Codec, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	switch name {
	case "", "utf-8", "utf8":
		return &Codec{name: "utf-8"}, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	if canonical == "utf-8" {
		return &Codec{name: "utf-8"}, nil
	}
	return &Codec{name: canonical, enc: enc}, nil
}

// Codec decodes strictly: UTF-8 input must be valid, other encodings must
// decode without producing U+FFFD, and text that the target encoding cannot
// represent fails to encode. A file in a legacy encoding cannot legitimately
// contain U+FFFD, so its presence marks a malformed byte sequence.
type Codec struct {
	name string
	enc  encoding.Encoding
}

func (c *Codec) Name() string {
	return c.name
}

func (c *Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", ErrInvalidUTF8
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("decode %s: %w", c.name, ErrInvalidContent)
	}
	return string(out), nil
}

func (c *Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}
