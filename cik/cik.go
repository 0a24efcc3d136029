// Package cik formats and validates SEC Central Index Keys.
//
// EDGAR keys most company data by a 10-digit, zero-padded CIK. Callers may
// pass the number in any loose form ("320193", "0000320193", "320193-");
// [Format] normalises it before a request is ever built.
package cik

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Width is the number of digits in a canonical CIK.
const Width = 10

// ErrInvalid is wrapped by every formatting failure.
var ErrInvalid = errors.New("invalid cik")

// Format strips all non-digit characters from raw and zero-pads the
// result to exactly ten digits.
func Format(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	switch {
	case digits == "":
		return "", fmt.Errorf("%w %q: must contain at least one digit", ErrInvalid, raw)
	case len(digits) > Width:
		return "", fmt.Errorf("%w %q: cannot be longer than %d digits", ErrInvalid, raw, Width)
	}

	return strings.Repeat("0", Width-len(digits)) + digits, nil
}

// Valid reports whether raw can be formatted.
func Valid(raw string) bool {
	_, err := Format(raw)
	return err == nil
}

// Number is a CIK as EDGAR serialises it in response bodies. Some
// endpoints emit it as a JSON number and others as a string, so it
// decodes from either.
type Number uint64

// String returns the canonical 10-digit form.
func (n Number) String() string {
	return fmt.Sprintf("%0*d", Width, uint64(n))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrInvalid, b, err)
	}
	*n = Number(v)

	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(n), 10), nil
}
