package protocol

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Button codes for the default device. Only volume-up (0xB6) and
// volume-down (0xB9) are confirmed from packet captures; the remaining
// codes are carried from the APK's keycode table and are unverified
// against a live hub.
var buttons = map[string]byte{
	"power":       0xB0,
	"home":        0xB2,
	"menu":        0xB3,
	"back":        0xB4,
	"volume-up":   0xB6,
	"volume-down": 0xB9,
	"mute":        0xBA,
	"nav-up":      0xAA,
	"nav-down":    0xAB,
	"nav-left":    0xAC,
	"nav-right":   0xAD,
	"ok":          0xAE,
}

// LookupButton resolves a button name to its one-byte code. Names are
// case-insensitive. A name that is not in the catalog is interpreted as
// a literal hexadecimal byte value ("b6" or "0xb6"); anything else is a
// user-input error, never silently coerced.
func LookupButton(name string) (byte, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := buttons[key]; ok {
		return code, nil
	}

	hex := strings.TrimPrefix(key, "0x")
	if v, err := strconv.ParseUint(hex, 16, 8); err == nil {
		return byte(v), nil
	}

	return 0, fmt.Errorf("unknown button %q (use 'sofactl buttons' to list the catalog, or give a hex byte like 0xb6)", name)
}

// ButtonName returns the catalog name for a code, or "" if the code is
// not a named button.
func ButtonName(code byte) string {
	for name, c := range buttons {
		if c == code {
			return name
		}
	}
	return ""
}

// ButtonNames returns the catalog names in sorted order.
func ButtonNames() []string {
	names := make([]string, 0, len(buttons))
	for name := range buttons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ButtonCode returns the code for a catalog name without the hex
// fallback. It exists for callers that iterate ButtonNames.
func ButtonCode(name string) (byte, bool) {
	code, ok := buttons[name]
	return code, ok
}
