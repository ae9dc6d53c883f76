package token

import (
	"github.com/shopspring/decimal"
)

// ValueKind identifies the shape of a token's literal value.
type ValueKind int

const (
	// ValueKindText is a textual literal (single-quoted string).
	ValueKindText ValueKind = iota
	// ValueKindNumber is a numeric literal, held as an exact decimal so that
	// arity/precision checks (CAST parameters, TIME precision, and so on)
	// never lose precision to a float round-trip.
	ValueKindNumber
	// ValueKindBoolean is a TRUE/FALSE literal.
	ValueKindBoolean
	// ValueKindNull is an untyped SQL NULL literal value (distinct from the
	// KindNull token kind, which marks the NULL keyword itself).
	ValueKindNull
	// ValueKindMissing is the PartiQL MISSING literal value.
	ValueKindMissing
	// ValueKindIon is an opaque, tagged Ion literal; the lexer does not
	// parse its content, it only captures the raw text.
	ValueKindIon
	// ValueKindOrdinal is the 1-based ordinal of a positional ("?")
	// parameter placeholder.
	ValueKindOrdinal
)

// Value is the literal value carried by a token.
type Value struct {
	Kind    ValueKind
	text    string
	number  decimal.Decimal
	boolean bool
	ordinal int
}

// NewTextValue creates a text literal value.
func NewTextValue(s string) Value { return Value{Kind: ValueKindText, text: s} }

// NewNumberValue creates a numeric literal value from its exact decimal
// representation.
func NewNumberValue(d decimal.Decimal) Value { return Value{Kind: ValueKindNumber, number: d} }

// NewBooleanValue creates a boolean literal value.
func NewBooleanValue(b bool) Value { return Value{Kind: ValueKindBoolean, boolean: b} }

// NewNullValue creates the untyped null literal value.
func NewNullValue() Value { return Value{Kind: ValueKindNull} }

// NewMissingValue creates the MISSING literal value.
func NewMissingValue() Value { return Value{Kind: ValueKindMissing} }

// NewIonValue creates an opaque Ion literal value, carrying its raw text.
func NewIonValue(raw string) Value { return Value{Kind: ValueKindIon, text: raw} }

// NewOrdinalValue creates the value of a positional parameter placeholder.
func NewOrdinalValue(ordinal int) Value { return Value{Kind: ValueKindOrdinal, ordinal: ordinal} }

// IsText reports whether v holds a text value.
func (v Value) IsText() bool { return v.Kind == ValueKindText }

// IsNumeric reports whether v holds a numeric value.
func (v Value) IsNumeric() bool { return v.Kind == ValueKindNumber }

// IsUnsignedInteger reports whether v is a numeric value that is a
// non-negative integer, e.g. the only shape legal as a CAST type parameter.
func (v Value) IsUnsignedInteger() bool {
	return v.Kind == ValueKindNumber && v.number.IsInteger() && v.number.Sign() >= 0
}

// String returns the textual content of a text or Ion value.
func (v Value) String() string { return v.text }

// Number returns the decimal content of a numeric value.
func (v Value) Number() decimal.Decimal { return v.number }

// Long returns the integral content of a numeric value, truncating any
// fractional part.
func (v Value) Long() int64 { return v.number.IntPart() }

// Bool returns the content of a boolean value.
func (v Value) Bool() bool { return v.boolean }

// Ordinal returns the 1-based ordinal of a positional parameter value.
func (v Value) Ordinal() int { return v.ordinal }
