package net

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"

	"github.com/eventangle/edge"
	"github.com/eventangle/edge/auth"
	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"
	"github.com/go-chi/chi/v5/middleware"
)

// hopHeaders are stripped before relaying in either direction, per RFC 7230
// section 6.1.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailers",
	"Transfer-Encoding",
	"Upgrade",
}

// Forwarder relays edge requests to the EventAngle application server.
type Forwarder struct {
	client *http.Client
	target *url.URL
}

func NewForwarder(rawURL string, timeout time.Duration) (*Forwarder, error) {
	if util.IsStringEmpty(rawURL) {
		return nil, errors.New("upstream url is required")
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream url: %v", err)
	}

	return &Forwarder{
		client: &http.Client{Timeout: timeout},
		target: target,
	}, nil
}

// Forward relays r to the upstream and returns the upstream's answer. Admin
// credentials are stripped from admin-facing requests before they leave the
// edge; the shared token stays between the caller and the gate.
func (f *Forwarder) Forward(r *http.Request) (*Response, error) {
	res := &Response{}
	lo := log.FromContext(r.Context())

	u := *f.target
	u.Path = singleJoiningSlash(f.target.Path, r.URL.Path)
	u.RawQuery = r.URL.RawQuery

	isAdmin := auth.IsAdminRoute(r.URL.Path)
	if isAdmin {
		q := r.URL.Query()
		q.Del(auth.QueryParamAdminKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, u.String(), r.Body)
	if err != nil {
		lo.WithError(err).Error("error occurred while creating upstream request")
		res.Error = err.Error()
		return res, err
	}

	copyHeader(req.Header, r.Header)
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}

	if isAdmin {
		req.Header.Del("Authorization")
	}

	if clientIP, _, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil {
		if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
			clientIP = prior + ", " + clientIP
		}
		req.Header.Set("X-Forwarded-For", clientIP)
	}

	req.Header.Set("X-Forwarded-Host", r.Host)
	req.Header.Set("X-Forwarded-Proto", forwardedProto(r))

	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	req.Header.Set("User-Agent", string(edge.DefaultUserAgent()))
	req.ContentLength = r.ContentLength

	res.RequestHeader = req.Header
	res.URL = req.URL
	res.Method = req.Method

	trace := &httptrace.ClientTrace{
		GotConn: func(connInfo httptrace.GotConnInfo) {
			res.IP = connInfo.Conn.RemoteAddr().String()
			lo.Debugf("upstream address resolved to: %s", connInfo.Conn.RemoteAddr())
		},
	}

	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	response, err := f.client.Do(req)
	if err != nil {
		lo.WithError(err).Error("error forwarding request to upstream")
		res.Error = err.Error()
		return res, err
	}
	updateForwardResponse(res, response)

	body, err := io.ReadAll(response.Body)
	res.Body = body
	if err != nil {
		lo.WithError(err).Error("couldn't read upstream response body")
		return res, err
	}

	err = response.Body.Close()
	if err != nil {
		lo.WithError(err).Error("error while closing upstream connection")
		return res, err
	}

	return res, nil
}

type Response struct {
	Status         string
	StatusCode     int
	Method         string
	URL            *url.URL
	RequestHeader  http.Header
	ResponseHeader http.Header
	Body           []byte
	IP             string
	Error          string
}

// WriteTo replays the upstream answer on the edge's response writer.
func (res *Response) WriteTo(w http.ResponseWriter) {
	header := w.Header()
	copyHeader(header, res.ResponseHeader)
	for _, h := range hopHeaders {
		header.Del(h)
	}

	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}

func updateForwardResponse(res *Response, r *http.Response) {
	res.Status = r.Status
	res.StatusCode = r.StatusCode
	res.ResponseHeader = r.Header
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func forwardedProto(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func singleJoiningSlash(a, b string) string {
	switch {
	case a == "" || a == "/":
		return b
	case b == "":
		return a
	}

	aslash := a[len(a)-1] == '/'
	bslash := b[0] == '/'
	switch {
	case aslash && bslash:
		return a + b[1:]
	case !aslash && !bslash:
		return a + "/" + b
	}
	return a + b
}
