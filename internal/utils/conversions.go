package utils

import "strconv"

// ClaimInt reads a numeric JWT claim. Claims decode as float64 or as a
// decimal string depending on the issuer.
func ClaimInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
