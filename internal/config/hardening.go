package config

import (
	"strconv"
	"strings"
)

// HSTSOneYear is the Strict-Transport-Security max-age applied in production.
const HSTSOneYear = 31536000

// ProxyHeader is a request header a trusted reverse proxy sets to signal
// the scheme the client used.
type ProxyHeader struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Hardening is the production-only security bundle. The zero value means
// no hardening.
type Hardening struct {
	SessionCookieSecure   bool        `yaml:"session_cookie_secure"`
	CSRFCookieSecure      bool        `yaml:"csrf_cookie_secure"`
	SSLRedirect           bool        `yaml:"ssl_redirect"`
	BrowserXSSFilter      bool        `yaml:"browser_xss_filter"`
	ContentTypeNosniff    bool        `yaml:"content_type_nosniff"`
	FrameOptions          string      `yaml:"frame_options,omitempty"`
	HSTSSeconds           int         `yaml:"hsts_seconds"`
	HSTSIncludeSubdomains bool        `yaml:"hsts_include_subdomains"`
	HSTSPreload           bool        `yaml:"hsts_preload"`
	ProxySSLHeader        ProxyHeader `yaml:"proxy_ssl_header"`
}

// HardeningFor returns the full bundle for the production stage and the
// zero value for every other stage.
func HardeningFor(stage Stage) Hardening {
	if !stage.IsProduction() {
		return Hardening{}
	}
	return Hardening{
		SessionCookieSecure:   true,
		CSRFCookieSecure:      true,
		SSLRedirect:           true,
		BrowserXSSFilter:      true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		HSTSSeconds:           HSTSOneYear,
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		ProxySSLHeader:        ProxyHeader{Name: "X-Forwarded-Proto", Value: "https"},
	}
}

// Enabled reports whether any hardening flag is set.
func (h Hardening) Enabled() bool {
	return h != Hardening{}
}

// HSTSHeader renders the Strict-Transport-Security value, or "" when HSTS is off.
func (h Hardening) HSTSHeader() string {
	if h.HSTSSeconds <= 0 {
		return ""
	}
	parts := []string{"max-age=" + strconv.Itoa(h.HSTSSeconds)}
	if h.HSTSIncludeSubdomains {
		parts = append(parts, "includeSubDomains")
	}
	if h.HSTSPreload {
		parts = append(parts, "preload")
	}
	return strings.Join(parts, "; ")
}
