package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

// Options controls how tables are read from and written to disk. Every file
// touched by one run must share the same Options.
type Options struct {
	// Encoding is a WHATWG encoding label ("utf-8", "big5", "gbk", ...).
	Encoding string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// codec is a resolved Options.Encoding. A nil enc means the bytes are UTF-8
// and are passed through untouched (and validated on read).
type codec struct {
	name string
	enc  encoding.Encoding
}

func (c codec) isUTF8() bool { return c.enc == nil }

func resolveCodec(label string) (codec, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return codec{}, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return codec{}, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if name == "utf-8" {
		return codec{name: name}, nil
	}
	return codec{name: name, enc: enc}, nil
}

// CanonicalEncoding returns the canonical name for an encoding label, or an
// error when the label is not recognised.
func CanonicalEncoding(label string) (string, error) {
	c, err := resolveCodec(label)
	if err != nil {
		return "", err
	}
	return c.name, nil
}
