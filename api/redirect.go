package api

import (
	"net/http"
	"net/url"

	"github.com/eventangle/edge/util"
	"github.com/go-chi/render"
)

// legacyPageMapping translates the old ?p=<page> names to the path
// segments the application server serves today.
var legacyPageMapping = map[string]string{
	"status":      "status",
	"admin":       "manage",
	"events":      "events",
	"display":     "display",
	"poster":      "poster",
	"public":      "public",
	"sponsor":     "sponsors",
	"config":      "config",
	"reports":     "reports",
	"diagnostics": "diagnostics",
}

// RedirectLegacyPage answers the old Apps Script entry point
// (/exec?p=<page>&tenant=<t>) with a redirect to the current
// /<tenant>/<page> layout. Query parameters other than the page and
// tenant selectors are carried over.
func (a *ApplicationHandler) RedirectLegacyPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := q.Get("p")
	if page == "" {
		page = q.Get("page")
	}

	tenant := q.Get("tenant")

	if page == "" || tenant == "" {
		_ = render.Render(w, r, util.NewErrorResponse("NOT_FOUND", "unknown legacy page request", http.StatusNotFound))
		return
	}

	mapped, ok := legacyPageMapping[page]
	if !ok {
		mapped = page
	}

	rest := url.Values{}
	for key, vals := range q {
		if key == "p" || key == "page" || key == "tenant" {
			continue
		}
		rest[key] = vals
	}

	target := url.URL{}
	if page == "status" {
		target.Path = "/status"
		rest.Set("tenant", tenant)
	} else {
		target.Path = "/" + tenant + "/" + mapped
	}
	target.RawQuery = rest.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}
