package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
)

const jsonIndent = "    "

// EncodeInventory renders inv as a JSON object with four-space indentation,
// keys in insertion order. An empty inventory is written as {}.
func EncodeInventory(inv *domain.Inventory) ([]byte, error) {
	if inv.Len() == 0 {
		return []byte("{}"), nil
	}

	items := inv.Items()
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, level := range items {
		if err := domain.ValidateItem(level.Item); err != nil {
			return nil, fmt.Errorf("encode item: %w", err)
		}
		key, err := quote(level.Item)
		if err != nil {
			return nil, fmt.Errorf("encode item %q: %w", level.Item, err)
		}
		buf.WriteString(jsonIndent)
		buf.Write(key)
		buf.WriteString(": ")
		buf.WriteString(strconv.Itoa(level.Quantity))
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// DecodeInventory parses a JSON object of item -> integer quantity. Key order
// in the document becomes insertion order; a repeated key keeps its first
// position and its last value.
func DecodeInventory(data []byte) (*domain.Inventory, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("expected object, got %s", v.Type())
	}

	inv := domain.NewInventory()
	var decodeErr error
	obj.Visit(func(key []byte, value *fastjson.Value) {
		if decodeErr != nil {
			return
		}
		qty, err := value.Int()
		if err != nil {
			decodeErr = fmt.Errorf("item %q: %w", key, err)
			return
		}
		inv.Set(string(key), qty)
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return inv, nil
}

func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
