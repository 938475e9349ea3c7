package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/medcare-solutions/repair-api/internal/config"
)

// securityHeaders turns the config into the fixed header set sent with every response
func securityHeaders(cfg *config.SecurityConfig) map[string]string {
	headers := map[string]string{}
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}

	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	set("X-Frame-Options", cfg.FrameOptions)
	set("X-XSS-Protection", cfg.XSSProtection)
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Permissions-Policy", cfg.PermissionsPolicy)

	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers["Strict-Transport-Security"] = hsts
	}
	return headers
}

// SecurityHeaders returns a middleware that adds security headers to responses.
// Swagger UI needs inline scripts, so its pages skip the Content-Security-Policy.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := securityHeaders(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				if name == "Content-Security-Policy" && isSwaggerPath(r.URL.Path) {
					continue
				}
				h.Set(name, value)
			}
			h.Del("X-Powered-By")
			h.Del("Server")
			next.ServeHTTP(w, r)
		})
	}
}

func isSwaggerPath(path string) bool {
	return strings.HasPrefix(path, "/swagger")
}
