package console

import (
	"fmt"
	"strconv"
)

// coercer converts one raw argument for one parameter.
type coercer func(raw string, param Parameter) (any, error)

var coercers = map[ParamType]coercer{
	ParamInt: func(raw string, _ Parameter) (any, error) {
		value, err := strconv.ParseInt(raw, 10, 0)
		if err != nil {
			return nil, err
		}
		return int(value), nil
	},
	ParamFloat: func(raw string, _ Parameter) (any, error) {
		return strconv.ParseFloat(raw, 64)
	},
	ParamBool: func(raw string, _ Parameter) (any, error) {
		return strconv.ParseBool(raw)
	},
	ParamString: func(raw string, _ Parameter) (any, error) {
		return raw, nil
	},
	ParamEnum: func(raw string, param Parameter) (any, error) {
		key := NormalizeName(raw)
		for _, name := range param.Enum {
			if NormalizeName(name) == key {
				return name, nil
			}
		}
		return nil, fmt.Errorf("not one of %v", param.Enum)
	},
}

// Coerce converts one raw argument to the parameter's declared type.
func Coerce(raw string, param Parameter) (any, error) {
	convert, exists := coercers[param.Type]
	if !exists {
		return nil, fmt.Errorf("coerce %q to %s: %w", raw, param.Type, ErrUnsupportedType)
	}
	value, err := convert(raw, param)
	if err != nil {
		return nil, &CoercionError{Arg: raw, Param: param, Err: err}
	}

	return value, nil
}

// CoerceAll converts every argument, collecting one CoercionError per failure.
//
// Args is only usable when errs is empty.
func CoerceAll(raw []string, params []Parameter) (args Args, errs []error) {
	if len(raw) != len(params) {
		return Args{}, []error{fmt.Errorf("coerce %d args for %d params: %w", len(raw), len(params), ErrArityMismatch)}
	}

	values := make([]any, len(raw))
	for index, arg := range raw {
		value, err := Coerce(arg, params[index])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[index] = value
	}
	if len(errs) > 0 {
		return Args{}, errs
	}

	return NewArgs(params, values), nil
}

// CoercionError reports one argument that could not be converted.
type CoercionError struct {
	// Arg is the raw argument text.
	Arg string
	// Param is the target parameter.
	Param Parameter
	// Err is the underlying parse failure.
	Err error
}

// Error names the offending argument and target type.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("Could not convert %q to type %s", e.Arg, e.Param.TypeName())
}

// Unwrap lets errors.Is match ErrCoercion.
func (e *CoercionError) Unwrap() []error {
	return []error{ErrCoercion, e.Err}
}

// Args holds coerced arguments in parameter order.
type Args struct {
	params []Parameter
	values []any
}

// NewArgs binds coerced values to their parameters.
func NewArgs(params []Parameter, values []any) Args {
	return Args{
		params: append([]Parameter(nil), params...),
		values: append([]any(nil), values...),
	}
}

// Len returns the argument count.
func (a Args) Len() int {
	return len(a.values)
}

// Value returns the raw coerced value at index, or nil when out of range.
func (a Args) Value(index int) any {
	if index < 0 || index >= len(a.values) {
		return nil
	}

	return a.values[index]
}

// Int returns the int argument at index.
func (a Args) Int(index int) int {
	value, _ := a.Value(index).(int)
	return value
}

// Float returns the float argument at index.
func (a Args) Float(index int) float64 {
	value, _ := a.Value(index).(float64)
	return value
}

// Bool returns the bool argument at index.
func (a Args) Bool(index int) bool {
	value, _ := a.Value(index).(bool)
	return value
}

// String returns the string or enum argument at index.
func (a Args) String(index int) string {
	value, _ := a.Value(index).(string)
	return value
}

// Param returns the parameter bound at index.
func (a Args) Param(index int) (Parameter, bool) {
	if index < 0 || index >= len(a.params) {
		return Parameter{}, false
	}

	return a.params[index], true
}
