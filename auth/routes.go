package auth

import "strings"

// Admin-scoped path families the gate protects. New families belong in
// these tables, not in new branches.
var (
	adminRoutePrefixes = []string{
		"/api/admin/",
		"/api/v2/admin/",
	}

	adminRouteFragments = []string{
		"/adminbundle",
		"/bundle/admin",
	}
)

// IsAdminRoute reports whether pathname belongs to an admin-scoped route
// family. Matching is case-insensitive.
func IsAdminRoute(pathname string) bool {
	p := strings.ToLower(pathname)

	for _, prefix := range adminRoutePrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	for _, fragment := range adminRouteFragments {
		if strings.Contains(p, fragment) {
			return true
		}
	}

	return false
}
