package hd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// HardenedKeyStart is the index at which a hardened key starts.
	HardenedKeyStart = uint32(0x80000000) // 2^31

	// DefaultHDPath is the BIP44 path of the first cosmos account.
	DefaultHDPath = "m/44'/118'/0'/0/0"
)

var ErrInvalidPath = errors.New("invalid derivation path")

// ParseDerivationPath converts a textual BIP32 path into child indexes.
// Hardened components ("44'" or "44h") are offset by HardenedKeyStart.
func ParseDerivationPath(path string) ([]uint32, error) {
	components := strings.Split(strings.TrimSpace(path), "/")
	switch {
	case len(components) == 0 || components[0] != "m":
		return nil, errors.Wrapf(ErrInvalidPath, "%q must start with m", path)
	case len(components) == 1:
		return nil, errors.Wrapf(ErrInvalidPath, "%q has no components", path)
	}

	result := make([]uint32, 0, len(components)-1)
	for _, component := range components[1:] {
		hardened := false
		if strings.HasSuffix(component, "'") || strings.HasSuffix(component, "h") {
			hardened = true
			component = component[:len(component)-1]
		}
		value, err := strconv.ParseUint(component, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPath, "component %q: %v", component, err)
		}
		if uint32(value) >= HardenedKeyStart {
			return nil, errors.Wrapf(ErrInvalidPath, "component %q out of range", component)
		}
		if hardened {
			value += uint64(HardenedKeyStart)
		}
		result = append(result, uint32(value))
	}
	return result, nil
}

// FormatDerivationPath is the inverse of ParseDerivationPath, using ' for hardened components.
func FormatDerivationPath(path []uint32) string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, n := range path {
		if n >= HardenedKeyStart {
			fmt.Fprintf(&sb, "/%d'", n-HardenedKeyStart)
			continue
		}
		fmt.Fprintf(&sb, "/%d", n)
	}
	return sb.String()
}
