package pubsub

import "strconv"

// Codec converts a topic's typed value to and from the opaque string
// payload carried on the serialized plane. Topics are created with the
// default codec for string, int, and float64 (see defaultCodec); any
// other type needs an explicit SetSerializer call before it can
// participate in the serialized plane.
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(raw string) (T, error)
}

// CodecFunc builds a Codec from a pair of plain functions, the way a
// caller installs a custom serializer for a non-primitive topic type.
type CodecFunc[T any] struct {
	EncodeFunc func(T) (string, error)
	DecodeFunc func(string) (T, error)
}

func (c CodecFunc[T]) Encode(v T) (string, error) { return c.EncodeFunc(v) }
func (c CodecFunc[T]) Decode(s string) (T, error) { return c.DecodeFunc(s) }

// defaultCodec returns the built-in lexical codec for string, int, and
// float64 topics (spec.md §4.5), or nil if T has no default — in which
// case the serialized plane is a silent no-op for that topic until the
// caller installs one with SetSerializer.
func defaultCodec[T any]() Codec[T] {
	var zero T
	switch any(zero).(type) {
	case string:
		return CodecFunc[T]{
			EncodeFunc: func(v T) (string, error) { return any(v).(string), nil },
			DecodeFunc: func(s string) (T, error) { return any(s).(T), nil },
		}
	case int:
		return CodecFunc[T]{
			EncodeFunc: func(v T) (string, error) { return strconv.Itoa(any(v).(int)), nil },
			DecodeFunc: func(s string) (T, error) {
				n, err := strconv.Atoi(s)
				if err != nil {
					return zero, err
				}
				return any(n).(T), nil
			},
		}
	case float64:
		return CodecFunc[T]{
			EncodeFunc: func(v T) (string, error) {
				return strconv.FormatFloat(any(v).(float64), 'f', -1, 64), nil
			},
			DecodeFunc: func(s string) (T, error) {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return zero, err
				}
				return any(f).(T), nil
			},
		}
	default:
		return nil
	}
}
