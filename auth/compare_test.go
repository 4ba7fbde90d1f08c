package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
		eq   bool
	}{
		{
			name: "should_match_equal_strings",
			got:  "a-long-admin-token",
			want: "a-long-admin-token",
			eq:   true,
		},
		{
			name: "should_reject_difference_in_first_byte",
			got:  "x-long-admin-token",
			want: "a-long-admin-token",
			eq:   false,
		},
		{
			name: "should_reject_difference_in_last_byte",
			got:  "a-long-admin-tokex",
			want: "a-long-admin-token",
			eq:   false,
		},
		{
			name: "should_reject_different_lengths",
			got:  "a-long-admin-token-x",
			want: "a-long-admin-token",
			eq:   false,
		},
		{
			name: "should_reject_empty_candidate",
			got:  "",
			want: "a-long-admin-token",
			eq:   false,
		},
		{
			name: "should_match_empty_strings",
			got:  "",
			want: "",
			eq:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.eq, SecureCompare(tt.got, tt.want))
		})
	}
}
