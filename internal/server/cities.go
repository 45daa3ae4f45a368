package server

// Cities served; matched ASCII case-insensitively after trim.
var Cities = []string{
	"Bari", "Roma", "Milano", "Napoli", "Torino",
	"Palermo", "Genova", "Bologna", "Firenze", "Venezia",
}

// SupportedCity true if name is in Cities (no Unicode folding).
func SupportedCity(name string) bool {
	for _, c := range Cities {
		if equalFoldASCII(name, c) {
			return true
		}
	}
	return false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
