package app

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/repository/sqlstore"
)

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

// dbNameFromURL names the target database for span attributes. SQLite DSNs
// (file:..., or a bare path) are named after the database file.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isSQLiteDSN(trimmed) {
		return filepath.Base(sqlstore.SQLitePath(trimmed))
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

func isSQLiteDSN(dsn string) bool {
	if strings.HasPrefix(dsn, "file:") {
		return true
	}
	return dsn != "" && !strings.Contains(dsn, "://") && !strings.ContainsAny(dsn, " =")
}
