package server

import (
	"fmt"
	"strconv"
)

// stringParam reads a string argument.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// intParam reads a numeric argument. JSON numbers arrive as float64; numeric
// strings are accepted too.
func intParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

func requireString(params map[string]interface{}, key string) (string, error) {
	if s := stringParam(params, key, ""); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("missing required argument %q", key)
}

func requireInt(params map[string]interface{}, key string) (int, error) {
	if _, ok := params[key]; !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	const unset = -1 << 31
	if n := intParam(params, key, unset); n != unset {
		return n, nil
	}
	return 0, fmt.Errorf("argument %q must be a number", key)
}
