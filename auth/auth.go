// Package auth implements the admin authentication gate for the edge.
// It decides, per request, whether valid admin credentials are present
// and produces ready-to-render error responses when they are not. Every
// decision is a pure function of the request and an explicit Binding;
// the package holds no state and reads no ambient configuration.
package auth

import (
	"strings"
	"time"
)

// Method identifies the credential channel a request authenticated with.
type Method string

const (
	// MethodBearerToken is the preferred channel: the standard
	// Authorization header with the Bearer scheme.
	MethodBearerToken Method = "bearer_token"

	// MethodQueryParam is the deprecated legacy channel: an adminKey
	// query parameter. It leaks into access logs and browser history,
	// so it survives only for backward compatibility.
	MethodQueryParam Method = "query_param"
)

func (m Method) String() string {
	return string(m)
}

// RoleAdmin is the only role the edge gate grants.
const RoleAdmin = "admin"

// EnvProduction is the environment tag under which a missing admin
// token must fail closed. The match is verbatim.
const EnvProduction = "production"

// Binding carries the admin credential configuration for one request.
// It is supplied explicitly by the caller; the gate never fetches or
// caches secrets itself.
type Binding struct {
	AdminToken  string
	Environment string
}

// IsConfigured reports whether the binding holds a non-empty admin token.
func (b *Binding) IsConfigured() bool {
	return !isEmpty(b.AdminToken)
}

// Context describes a successful authentication decision.
type Context struct {
	Role            string    `json:"role"`
	Method          Method    `json:"method"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

func isEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
