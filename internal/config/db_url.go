package config

import "net/url"

// DBConnURL returns DB_URL with disable_prepared_binary_result=yes appended
// when DB_DISABLE_PREPARED_BINARY_RESULT is set. An explicit value in the URL
// wins.
func (c Config) DBConnURL() string {
	return normalizeDBURL(c.DBURL, c.DBDisablePreparedBinary)
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
