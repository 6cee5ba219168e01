package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alx-travel/alx-travel-app/internal/config"
)

// debugHosts are accepted when no hosts are configured and debug is on.
var debugHosts = []string{".localhost", "127.0.0.1", "[::1]"}

type hostPolicy struct {
	patterns []string
}

func newHostPolicy(allowed []string, debug bool) *hostPolicy {
	patterns := allowed
	if len(patterns) == 0 && debug {
		patterns = debugHosts
	}
	p := &hostPolicy{patterns: make([]string, 0, len(patterns))}
	for _, pattern := range patterns {
		p.patterns = append(p.patterns, strings.ToLower(strings.TrimSpace(pattern)))
	}
	return p
}

// allows matches host against the configured patterns. "*" matches every
// host; a leading dot matches the domain and all of its subdomains.
func (p *hostPolicy) allows(host string) bool {
	domain := hostDomain(host)
	if domain == "" {
		return false
	}
	for _, pattern := range p.patterns {
		switch {
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "."):
			if domain == pattern[1:] || strings.HasSuffix(domain, pattern) {
				return true
			}
		case domain == pattern:
			return true
		}
	}
	return false
}

// hostDomain lower-cases host and strips the port and any trailing dot.
// IPv6 literals keep their brackets.
func hostDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(host, "[") {
		end := strings.LastIndexByte(host, ']')
		if end < 0 {
			return ""
		}
		return host[:end+1]
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

func allowedHostsMiddleware(policy *hostPolicy, logger *zap.Logger, next http.Handler) http.Handler {
	if policy == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !policy.allows(r.Host) {
			if logger != nil {
				logger.Warn("disallowed host",
					zap.String("host", r.Host),
					zap.String("request_id", requestIDFromContext(r.Context())),
				)
			}
			writeError(w, http.StatusBadRequest, "Invalid host", "host is not in the allowed hosts list")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// securityMiddleware applies the hardening bundle. A zero bundle is a no-op.
func securityMiddleware(h config.Hardening, next http.Handler) http.Handler {
	if !h.Enabled() {
		return next
	}
	hsts := h.HSTSHeader()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secure := isSecure(r, h.ProxySSLHeader)
		if h.SSLRedirect && !secure {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		header := w.Header()
		if hsts != "" && secure {
			header.Set("Strict-Transport-Security", hsts)
		}
		if h.ContentTypeNosniff {
			header.Set("X-Content-Type-Options", "nosniff")
		}
		if h.FrameOptions != "" {
			header.Set("X-Frame-Options", h.FrameOptions)
		}
		if h.BrowserXSSFilter {
			header.Set("X-XSS-Protection", "1; mode=block")
		}

		if h.SessionCookieSecure || h.CSRFCookieSecure {
			cw := &secureCookieWriter{ResponseWriter: w}
			// handlers that never write leave the header flush to net/http
			defer cw.markSecure()
			w = cw
		}
		next.ServeHTTP(w, r)
	})
}

func isSecure(r *http.Request, proxy config.ProxyHeader) bool {
	if r.TLS != nil {
		return true
	}
	if proxy.Name == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(proxy.Name)), proxy.Value)
}

// secureCookieWriter marks every Set-Cookie header Secure before the
// response headers are flushed.
type secureCookieWriter struct {
	http.ResponseWriter
	done bool
}

func (w *secureCookieWriter) WriteHeader(status int) {
	w.markSecure()
	w.ResponseWriter.WriteHeader(status)
}

func (w *secureCookieWriter) Write(p []byte) (int, error) {
	w.markSecure()
	return w.ResponseWriter.Write(p)
}

func (w *secureCookieWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *secureCookieWriter) markSecure() {
	if w.done {
		return
	}
	w.done = true
	cookies := w.Header()["Set-Cookie"]
	for i, c := range cookies {
		if !hasSecureAttr(c) {
			cookies[i] = c + "; Secure"
		}
	}
}

func hasSecureAttr(cookie string) bool {
	for _, attr := range strings.Split(cookie, ";")[1:] {
		if strings.EqualFold(strings.TrimSpace(attr), "secure") {
			return true
		}
	}
	return false
}
