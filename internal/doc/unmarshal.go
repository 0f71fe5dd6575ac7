package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes JSON into a Value. Used to round-trip stored run
// outputs. Decoding goes through the token stream rather than
// map[string]any so object key order is preserved.
func UnmarshalJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil

		case '[':
			seq := Sequence{}
			for dec.More() {
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("array[%d]: %w", len(seq), err)
				}
				seq = append(seq, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return seq, nil

		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}

	case string:
		return String(t), nil

	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number out of range: %s", t)
		}
		return Float(f), nil

	case bool:
		return Bool(t), nil

	case nil:
		return Null{}, nil

	default:
		return nil, fmt.Errorf("unexpected JSON token %T", tok)
	}
}
