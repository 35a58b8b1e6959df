package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyStatusCode = "status_code"
	KeyBytes      = "bytes"
	KeyEntries    = "entries"
	KeyYears      = "years"
	KeyMonths     = "months"
	KeyPolicy     = "policy"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func StatusCode(code int) slog.Attr   { return slog.Int(KeyStatusCode, code) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Years(n int) slog.Attr           { return slog.Int(KeyYears, n) }
func Months(n int) slog.Attr          { return slog.Int(KeyMonths, n) }
func Policy(p string) slog.Attr       { return slog.String(KeyPolicy, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
