package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/flatkey/internal/doc"
)

// decodeCUE compiles a CUE source file and converts the resulting value
// into a doc.Value tree. The document must evaluate to a fully concrete
// value - open constraints and unresolved references are syntax errors as
// far as the pipeline is concerned.
func decodeCUE(path string, data []byte) (doc.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: fmt.Sprintf("invalid CUE: %v", err), Err: err}
	}
	if err := v.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: fmt.Sprintf("CUE value not concrete: %v", err), Err: err}
	}

	tree, err := fromCUEValue(v)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: err.Error(), Err: err}
	}
	return tree, nil
}

// fromCUEValue converts a concrete cue.Value to a doc.Value.
// Struct field order follows CUE's field iteration, which preserves
// definition order for concrete structs.
func fromCUEValue(v cue.Value) (doc.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return doc.Null{}, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, fmt.Errorf("decoding bool: %w", err)
		}
		return doc.Bool(b), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("decoding int: %w", err)
		}
		return doc.Int(n), nil

	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("decoding float: %w", err)
		}
		return doc.Float(f), nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("decoding string: %w", err)
		}
		return doc.String(s), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, fmt.Errorf("iterating list: %w", err)
		}
		var seq doc.Sequence
		for iter.Next() {
			elem, err := fromCUEValue(iter.Value())
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		if seq == nil {
			seq = doc.Sequence{}
		}
		return seq, nil

	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, fmt.Errorf("iterating struct: %w", err)
		}
		m := doc.NewMapping()
		for iter.Next() {
			val, err := fromCUEValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", iter.Label(), err)
			}
			m.Set(iter.Label(), val)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported CUE kind %v", v.Kind())
	}
}
