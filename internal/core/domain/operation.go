package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/valyala/fastjson"
)

type OperationKind string

const (
	OperationAdd    OperationKind = "add"
	OperationRemove OperationKind = "remove"
)

var ErrInvalidOperation = errors.New("invalid operation")

// ValidateItem rejects item names that cannot round-trip through a JSON key.
func ValidateItem(item string) error {
	if !utf8.ValidString(item) {
		return fmt.Errorf("%w: item %q is not valid UTF-8", ErrInvalidOperation, item)
	}
	return nil
}

// Operation is a typed stock mutation decoded from untrusted input.
type Operation struct {
	Kind     OperationKind
	Item     string
	Quantity int
}

// ScriptEntry is one element of an operation script. Exactly one of
// Operation or Err is meaningful.
type ScriptEntry struct {
	Index     int
	Kind      OperationKind
	Operation Operation
	Err       error
}

// ParseScript decodes a JSON array of operation objects such as
//
//	[{"op": "add", "item": "apple", "qty": 10}]
//
// Malformed JSON or a non-array document fails the whole script. An element
// that is well-formed JSON but not a valid operation is reported through its
// entry's Err so the caller can decide whether to continue.
func ParseScript(data []byte) ([]ScriptEntry, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	values, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("parse script: expected array, got %s", v.Type())
	}

	entries := make([]ScriptEntry, 0, len(values))
	for i, value := range values {
		entry := ScriptEntry{Index: i, Kind: kindOf(value)}
		entry.Operation, entry.Err = decodeOperation(value, "")
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseOperation decodes a single operation object. When kind is empty the
// object must carry an "op" field; otherwise kind wins.
func ParseOperation(data []byte, kind OperationKind) (Operation, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return Operation{}, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	return decodeOperation(v, kind)
}

func kindOf(v *fastjson.Value) OperationKind {
	op := v.Get("op")
	if op == nil || op.Type() != fastjson.TypeString {
		return ""
	}
	return OperationKind(op.GetStringBytes())
}

func decodeOperation(v *fastjson.Value, kind OperationKind) (Operation, error) {
	if v.Type() != fastjson.TypeObject {
		return Operation{}, fmt.Errorf("%w: expected object, got %s", ErrInvalidOperation, v.Type())
	}

	if kind == "" {
		kind = kindOf(v)
	}
	if kind != OperationAdd && kind != OperationRemove {
		return Operation{}, fmt.Errorf("%w: unknown op %q", ErrInvalidOperation, kind)
	}
	op := Operation{Kind: kind}

	if item := v.Get("item"); item != nil {
		b, err := item.StringBytes()
		if err != nil {
			return Operation{}, fmt.Errorf("%w: item must be a string, got %s", ErrInvalidOperation, item.Type())
		}
		op.Item = string(b)
		if err := ValidateItem(op.Item); err != nil {
			return Operation{}, err
		}
	}

	qty := v.Get("qty")
	if qty == nil {
		qty = v.Get("quantity")
	}
	switch {
	case qty == nil && kind == OperationRemove:
		return Operation{}, fmt.Errorf("%w: quantity is required for remove", ErrInvalidOperation)
	case qty == nil:
		// add defaults to zero units
	case qty.Type() != fastjson.TypeNumber:
		return Operation{}, fmt.Errorf("%w: quantity must be an integer, got %s", ErrInvalidOperation, qty.Type())
	default:
		n, err := qty.Int()
		if err != nil {
			return Operation{}, fmt.Errorf("%w: quantity must be an integer, got %s", ErrInvalidOperation, qty.String())
		}
		op.Quantity = n
	}

	return op, nil
}
