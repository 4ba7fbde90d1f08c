package auth

import (
	"net/http"
	"time"

	"github.com/eventangle/edge/pkg/log"
)

// CheckAuth decides whether r carries valid admin credentials under b.
// Exactly one of the two return values is non-nil.
//
// An unconfigured binding fails closed in production and open anywhere
// else; that concession exists purely so local development does not
// require minting tokens, and it logs a warning every time it is used.
func CheckAuth(r *http.Request, b *Binding) (*Context, *Error) {
	lo := log.FromContext(r.Context())

	if !b.IsConfigured() {
		if b.Environment == EnvProduction {
			logAttempt(lo, r, "", ErrorNotConfigured)
			return nil, newError(ErrorNotConfigured)
		}

		lo.Warnf("ADMIN_TOKEN is not set; allowing admin request in %q environment", b.Environment)
		logAttempt(lo, r, MethodBearerToken, "")
		return grant(MethodBearerToken), nil
	}

	for _, ex := range tokenExtractors {
		candidate := ex.extract(r)
		if candidate == "" {
			continue
		}

		// The first channel that presents a candidate decides the
		// request; a mismatch never falls through to the next channel.
		if !SecureCompare(candidate, b.AdminToken) {
			logAttempt(lo, r, ex.method, ErrorInvalidToken)
			return nil, newError(ErrorInvalidToken)
		}

		logAttempt(lo, r, ex.method, "")
		return grant(ex.method), nil
	}

	logAttempt(lo, r, "", ErrorMissingToken)
	return nil, newError(ErrorMissingToken)
}

// GuardRoute gates r when it targets an admin-scoped route. A nil
// response means the caller should proceed: either the route is not
// admin-scoped or authentication succeeded, in which case the Context
// carries the decision. A non-nil response is ready to render and no
// protected handler may run.
func GuardRoute(r *http.Request, b *Binding) (*Context, *ErrorResponse) {
	if !IsAdminRoute(r.URL.Path) {
		return nil, nil
	}

	authCtx, authErr := CheckAuth(r, b)
	if authErr != nil {
		return nil, NewErrorResponse(authErr)
	}

	return authCtx, nil
}

func grant(m Method) *Context {
	return &Context{
		Role:            RoleAdmin,
		Method:          m,
		AuthenticatedAt: time.Now(),
	}
}

// logAttempt records the shape of an attempt: which channels were
// present, the resolved method and the error kind. Token values never
// appear in log output.
func logAttempt(lo log.StdLogger, r *http.Request, method Method, kind ErrorKind) {
	lo.WithFields(log.Fields{
		"has_auth_header": r.Header.Get("Authorization") != "",
		"has_admin_key":   r.URL.Query().Get(QueryParamAdminKey) != "",
		"method":          method.String(),
		"error_kind":      kind.String(),
	}).Debug("admin auth attempt")
}
