package util

import (
	"strings"

	"github.com/dchest/uniuri"
)

var (
	prefix    = "EA"
	seperator = "."
)

// GenerateAdminToken mints a token suitable for the ADMIN_TOKEN secret.
// The mask segment is safe to store or display for identification; the
// full token is shown once and never persisted by the edge.
func GenerateAdminToken() (string, string) {
	mask := uniuri.NewLen(16)
	key := uniuri.NewLen(64)

	var token strings.Builder

	token.WriteString(prefix)
	token.WriteString(seperator)
	token.WriteString(mask)
	token.WriteString(seperator)
	token.WriteString(key)

	return mask, token.String()
}
