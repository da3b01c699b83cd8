package log

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// toFields turns the loose keysAndValues accepted by Logger into zap fields.
// A bare zap.Field or error is taken on its own; everything else is read
// as key/value pairs. A trailing value without a key is logged as arg#N.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, field(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		if s, ok := key.(string); ok {
			fields = append(fields, field(s, val))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("invalid_key#%d", i), map[string]any{
				"key":   key,
				"value": val,
			}))
		}
		i += 2
	}

	return fields
}

// field picks a typed zap field for val. Phases, tones and other enum-like
// values render through String so they read the same in JSON and console
// output.
func field(key string, val any) zap.Field {
	switch v := val.(type) {
	case string:
		return zap.String(key, v)
	case []string:
		return zap.Strings(key, v)
	case bool:
		return zap.Bool(key, v)
	case int:
		return zap.Int(key, v)
	case int32:
		return zap.Int32(key, v)
	case int64:
		return zap.Int64(key, v)
	case uint:
		return zap.Uint(key, v)
	case uint32:
		return zap.Uint32(key, v)
	case uint64:
		return zap.Uint64(key, v)
	case float64:
		return zap.Float64(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	case time.Time:
		return zap.Time(key, v)
	case []byte:
		return zap.Binary(key, v)
	case error:
		return zap.NamedError(key, v)
	case fmt.Stringer:
		return zap.Stringer(key, v)
	}

	// Named string types without a String method.
	if rv := reflect.ValueOf(val); rv.Kind() == reflect.String {
		return zap.String(key, rv.String())
	}
	return zap.Any(key, val)
}
