package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAdminRoute(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "should_match_admin_api_prefix",
			path: "/api/admin/events",
			want: true,
		},
		{
			name: "should_match_versioned_admin_api_prefix",
			path: "/api/v2/admin/tenants",
			want: true,
		},
		{
			name: "should_match_prefixes_case_insensitively",
			path: "/API/V2/ADMIN/tenants",
			want: true,
		},
		{
			name: "should_match_admin_bundle_fragment",
			path: "/assets/adminBundle.js",
			want: true,
		},
		{
			name: "should_match_bundle_admin_fragment",
			path: "/events/1/bundle/admin",
			want: true,
		},
		{
			name: "should_not_match_public_api",
			path: "/api/events",
			want: false,
		},
		{
			name: "should_not_match_admin_without_prefix_boundary",
			path: "/api/administrators",
			want: false,
		},
		{
			name: "should_not_match_bare_admin_prefix_without_trailing_slash",
			path: "/api/admin",
			want: false,
		},
		{
			name: "should_not_match_root",
			path: "/",
			want: false,
		},
		{
			name: "should_not_match_empty_path",
			path: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAdminRoute(tt.path)
			require.Equal(t, tt.want, got)
		})
	}
}
