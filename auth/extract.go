package auth

import (
	"net/http"
	"strings"
)

// QueryParamAdminKey is the legacy query parameter older clients still
// send their admin token through.
const QueryParamAdminKey = "adminKey"

const bearerScheme = "bearer"

// tokenExtractor pulls a candidate token out of one credential channel.
// An empty result means the channel carried no candidate at all; a
// malformed Authorization header counts as absent, not invalid.
type tokenExtractor struct {
	method  Method
	extract func(r *http.Request) string
}

// tokenExtractors is ordered by preference: the first channel that
// yields a non-empty candidate decides the request.
var tokenExtractors = []tokenExtractor{
	{method: MethodBearerToken, extract: bearerToken},
	{method: MethodQueryParam, extract: adminKeyParam},
}

func bearerToken(r *http.Request) string {
	val := r.Header.Get("Authorization")
	authInfo := strings.Split(val, " ")

	if len(authInfo) != 2 {
		return ""
	}

	if !strings.EqualFold(authInfo[0], bearerScheme) {
		return ""
	}

	return authInfo[1]
}

func adminKeyParam(r *http.Request) string {
	return r.URL.Query().Get(QueryParamAdminKey)
}
