package hdwallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vaultedge/walletcore/walleterr"
)

// replaceLastSegment rewrites the final index of path to newIndex,
// preserving that segment's hardening marker (if any) and every other
// segment unchanged — the mechanism behind DeriveRange's "base_path
// with the last segment replaced by start+i" contract.
func replaceLastSegment(path string, newIndex int) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "m" {
		return "", fmt.Errorf("hdwallet: base path %q has no trailing segment to replace: %w", path, walleterr.ErrInvalidInput)
	}
	if !strings.HasPrefix(trimmed, "m/") {
		return "", fmt.Errorf("hdwallet: base path must start with \"m/\": %w", walleterr.ErrInvalidInput)
	}
	idx := strings.LastIndex(trimmed, "/")
	prefix := trimmed[:idx]
	last := trimmed[idx+1:]

	hardened := false
	switch {
	case strings.HasSuffix(last, "'"):
		hardened = true
	case strings.HasSuffix(last, "h"), strings.HasSuffix(last, "H"):
		hardened = true
	}
	if last == "" {
		return "", fmt.Errorf("hdwallet: base path %q has an empty trailing segment: %w", path, walleterr.ErrInvalidInput)
	}
	numeric := last
	if hardened {
		numeric = last[:len(last)-1]
	}
	if _, err := strconv.ParseUint(numeric, 10, 32); err != nil {
		return "", fmt.Errorf("hdwallet: base path trailing segment %q is not numeric: %w", last, walleterr.ErrInvalidInput)
	}

	if newIndex < 0 {
		return "", fmt.Errorf("hdwallet: negative derived index %d: %w", newIndex, walleterr.ErrInvalidInput)
	}
	if hardened {
		return fmt.Sprintf("%s/%d'", prefix, newIndex), nil
	}
	return fmt.Sprintf("%s/%d", prefix, newIndex), nil
}
