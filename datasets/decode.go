package datasets

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decoding selects how file bytes become text.
type Decoding int

const (
	// Lenient decodes UTF-8 and drops byte sequences that are not valid
	// UTF-8. It never fails on content; the corpus holds legacy-encoded
	// postings that would otherwise be lost.
	Lenient Decoding = iota
	// Strict decodes UTF-8 and fails with ErrInvalidEncoding on invalid
	// sequences.
	Strict
	// Latin1 decodes every byte as ISO-8859-1.
	Latin1
)

func (d Decoding) String() string {
	switch d {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	case Latin1:
		return "latin1"
	}
	return fmt.Sprintf("decoding(%d)", int(d))
}

// ParseDecoding maps a policy name back to its value.
func ParseDecoding(s string) (Decoding, error) {
	switch strings.ToLower(s) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	case "latin1", "iso-8859-1":
		return Latin1, nil
	}
	return 0, fmt.Errorf("unknown decoding policy %q", s)
}

// Decode converts raw bytes to text under the policy.
func (d Decoding) Decode(b []byte) (string, error) {
	switch d {
	case Lenient:
		return strings.ToValidUTF8(string(b), ""), nil
	case Strict:
		if !utf8.Valid(b) {
			return "", ErrInvalidEncoding
		}
		return string(b), nil
	case Latin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unknown decoding policy %d", int(d))
}

// Text is the decoded content of a posting.
type Text string

// Raw returns the underlying string.
func (t Text) Raw() string { return string(t) }

// ReadText reads and decodes the posting located by s.
func (s DataPointSource) ReadText(policy Decoding) (Text, error) {
	// os.ReadFile closes the file on every path.
	b, err := os.ReadFile(s.Path())
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Path(), err)
	}
	text, err := policy.Decode(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", s.Path(), err)
	}
	return Text(text), nil
}
