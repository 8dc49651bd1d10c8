package project

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names an editable project attribute.
type Field string

const (
	FieldProjectAddress Field = "project_address"
	FieldClient         Field = "client"
	FieldContractAmount Field = "contract_amount"
	FieldPaid           Field = "paid"
)

// ParseField validates a field name received from a caller.
func ParseField(name string) (Field, error) {
	switch f := Field(strings.TrimSpace(name)); f {
	case FieldProjectAddress, FieldClient, FieldContractAmount, FieldPaid:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Numeric reports whether the field holds a currency amount.
func (f Field) Numeric() bool {
	return f == FieldContractAmount || f == FieldPaid
}

// Value is a sanitized field value. Exactly one of Text or Amount is meaningful,
// depending on the field it was produced for.
type Value struct {
	Text   string
	Amount decimal.Decimal
}

// Sanitize normalizes raw input for field. It never fails: malformed numbers
// become zero and blank text becomes the field default.
func Sanitize(field Field, raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if field.Numeric() {
		return Value{Amount: parseAmount(trimmed)}
	}
	if trimmed == "" {
		if field == FieldClient {
			return Value{Text: DefaultClient}
		}
		return Value{Text: DefaultAddress}
	}
	return Value{Text: trimmed}
}

// parseAmount accepts either comma or dot as separator. Every dot-separated
// segment but the last is treated as part of the integer, so "10,000.00" and
// "10.000,00" both read as 10000.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)

	whole, frac := s, ""
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		whole = strings.ReplaceAll(s[:i], ".", "")
		frac = s[i+1:]
	}
	if whole == "" && frac == "" {
		return decimal.Zero
	}
	if whole == "" {
		whole = "0"
	}
	if frac == "" {
		frac = "0"
	}
	d, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}

// With returns a copy of p with field set to v.
func (p Project) With(field Field, v Value) Project {
	out := p.Clone()
	switch field {
	case FieldProjectAddress:
		out.ProjectAddress = v.Text
	case FieldClient:
		out.Client = v.Text
	case FieldContractAmount:
		out.ContractAmount = v.Amount
	case FieldPaid:
		out.Paid = v.Amount
	}
	return out
}
