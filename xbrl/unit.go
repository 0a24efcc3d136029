package xbrl

import (
	"fmt"
	"strings"
)

const perSep = "-per-"

// Unit is a unit of measure. A simple unit such as USD or shares has no
// Denominator; a compound unit renders as NUM-per-DENOM.
type Unit struct {
	Numerator   string
	Denominator string
}

// SimpleUnit returns a unit with no denominator.
func SimpleUnit(name string) Unit {
	return Unit{Numerator: name}
}

// CompoundUnit returns a NUM-per-DENOM unit.
func CompoundUnit(num, denom string) Unit {
	return Unit{Numerator: num, Denominator: denom}
}

// ParseUnit splits s on the first "-per-".
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return Unit{}, fmt.Errorf("%w: empty", ErrInvalidUnit)
	}

	num, denom, found := strings.Cut(s, perSep)
	if found && (num == "" || denom == "") {
		return Unit{}, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}

	return Unit{Numerator: num, Denominator: denom}, nil
}

func (u Unit) Compound() bool { return u.Denominator != "" }

func (u Unit) String() string {
	if u.Compound() {
		return u.Numerator + perSep + u.Denominator
	}
	return u.Numerator
}
