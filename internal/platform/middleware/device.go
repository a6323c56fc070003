package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"taskgate/pkg/requestcontext"
)

// Device parses the User-Agent header and stores a short device description
// in context. Audit events attach it so "signed up from iPhone Safari" style
// trails survive without storing the raw header.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		name := deviceName(ua)
		ctx := requestcontext.WithDeviceName(r.Context(), name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deviceName(ua *useragent.UserAgent) string {
	if ua == nil {
		return "unknown"
	}
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "unknown"
	}
}
