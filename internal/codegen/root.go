package codegen

import (
	"path"
	"sort"
	"strings"

	"github.com/okra-platform/overlay/internal/naming"
)

// HelperPackage is the name of the shared helper package created below the namespace root
const HelperPackage = "jso"

// ResolveRoot returns the namespace root of a batch: the longest slash-aligned prefix
// shared by every package. When the packages have nothing in common the shortest package
// is used, ties broken lexicographically. The result does not depend on input order.
// It returns false for an empty batch.
func ResolveRoot(packages []string) (string, bool) {
	if len(packages) == 0 {
		return "", false
	}

	normalized := make([]string, 0, len(packages))
	for _, p := range packages {
		normalized = append(normalized, naming.NormalizePackage(p))
	}
	sort.Strings(normalized)

	prefix := strings.Split(normalized[0], "/")
	for _, p := range normalized[1:] {
		segments := strings.Split(p, "/")
		n := 0
		for n < len(prefix) && n < len(segments) && prefix[n] == segments[n] {
			n++
		}
		prefix = prefix[:n]
	}
	if root := strings.Join(prefix, "/"); root != "" {
		return root, true
	}

	shortest := normalized[0]
	for _, p := range normalized[1:] {
		if len(p) < len(shortest) {
			shortest = p
		}
	}
	return shortest, true
}

// HelperPath returns the import path of the shared helper package for a namespace root
func HelperPath(root string) string {
	return path.Join(root, HelperPackage)
}
