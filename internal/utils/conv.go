package utils

import (
	"strconv"
)

// StringToUint converts a decimal string to uint, returning ok=false on any
// parse failure.
func StringToUint(s string) (uint, bool) {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(i), true
}
