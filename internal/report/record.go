package report

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Record is a single stat entry keyed by field name. A key holding nil is
// treated as absent.
type Record map[string]any

func (r Record) lookup(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r Record) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

// Int reports the integer value of key and whether it was present and
// parseable. Strings are parsed in base 10 only, so "010" is 10.
func (r Record) Int(key string) (int64, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		return parseInt(string(t))
	case string:
		return parseInt(t)
	case float64:
		if !finite(t) || math.Abs(t) >= 1<<63 {
			return 0, false
		}
	case float32:
		if !finite(float64(t)) || math.Abs(float64(t)) >= 1<<63 {
			return 0, false
		}
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	// integral values written as floats, e.g. "5.0" or "1e3"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) || math.Abs(f) >= 1<<63 || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Float reports the float value of key. NaN and infinities count as absent.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	var f float64
	var err error
	if n, isNum := v.(json.Number); isNum {
		f, err = n.Float64()
	} else {
		f, err = cast.ToFloat64E(v)
	}
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func (r Record) String(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	if n, isNum := v.(json.Number); isNum {
		return n.String(), true
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// Count returns a non-negative counter, 0 when missing or malformed.
func (r Record) Count(key string) int64 {
	n, _ := r.Int(key)
	if n < 0 {
		return 0
	}
	return n
}
