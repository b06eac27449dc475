package field

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// String formats v for comparison and display. Numbers keep every digit:
// json.Number is returned verbatim and floats never switch to exponent form.
func String(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprint(v)
	}
}
