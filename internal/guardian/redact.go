// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"net/url"
	"strings"
)

// RedactURL replaces the api-key parameter of a request URL with REDACTED,
// keeping parameter order. Unparsable input is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	params := strings.Split(u.RawQuery, "&")
	for i, p := range params {
		if strings.HasPrefix(p, "api-key=") {
			params[i] = "api-key=REDACTED"
		}
	}
	u.RawQuery = strings.Join(params, "&")
	return u.String()
}

// Redacted returns a copy of r whose URL carries no API key. Err is kept
// as is; use ErrorText for a printable message.
func (r Result) Redacted() Result {
	r.URL = RedactURL(r.URL)
	return r
}

// ErrorText returns the message of r.Err with the API key removed from any
// request URL it mentions, or "" for a successful run.
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	msg := r.Err.Error()
	if r.URL != "" {
		msg = strings.ReplaceAll(msg, r.URL, RedactURL(r.URL))
	}
	return msg
}
