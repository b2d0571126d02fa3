package config

import "net/url"

// UnparseableURL replaces any value RedactURL cannot prove is free of credentials
const UnparseableURL = "<unparseable url>"

// RedactURL strips user credentials from a URL so it can be logged. Values that are not
// absolute URLs, such as key=value postgres DSNs, are replaced entirely.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return UnparseableURL
	}
	u.User = nil
	return u.String()
}
