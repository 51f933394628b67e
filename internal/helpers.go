package internal

import "strconv"

// ContextValue returns the value stored under key if it has type T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// ParamInt64 parses a URL parameter as a base-10 int64.
func ParamInt64(c Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// QueryInt returns a positive integer query parameter or def when it is
// missing, malformed, or not positive.
func QueryInt(c Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
