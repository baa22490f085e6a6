package resp

import (
	"strconv"
)

// Encode renders f as its wire bytes. Encode is total: every valid Frame
// value has a byte representation, and Parse(Encode(f)) reproduces f.
func Encode(f Frame) []byte {
	buf := make([]byte, 0, 64)
	return appendFrame(buf, f)
}

func appendFrame(buf []byte, f Frame) []byte {
	switch f.Type {
	case Simple:
		buf = append(buf, '+')
		buf = append(buf, f.Str...)
		return append(buf, '\r', '\n')
	case Error:
		buf = append(buf, '-')
		buf = append(buf, f.Str...)
		return append(buf, '\r', '\n')
	case Integer:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, f.Int, 10)
		return append(buf, '\r', '\n')
	case Bulk:
		if f.BulkNull {
			return append(buf, '$', '-', '1', '\r', '\n')
		}
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(f.Bytes)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, f.Bytes...)
		return append(buf, '\r', '\n')
	case Array:
		if f.ArrayNull {
			return append(buf, '*', '-', '1', '\r', '\n')
		}
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(f.Elems)), 10)
		buf = append(buf, '\r', '\n')
		for _, e := range f.Elems {
			buf = appendFrame(buf, e)
		}
		return buf
	default:
		return buf
	}
}
