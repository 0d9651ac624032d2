// Package iox provides I/O helpers for HTTP response bodies.
package iox

import (
	"io"
	"strings"
)

// drainLimit bounds how much of an unread body DrainClose consumes.
const drainLimit = 64 << 10

// DrainClose reads what is left of rc (up to 64 KiB) and closes it, so the
// underlying connection can be reused. Errors are unactionable and discarded:
//
//	defer iox.DrainClose(resp.Body)
func DrainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, drainLimit))
	_ = rc.Close()
}

// ReadSnippet returns at most n bytes of r as a trimmed string.
// Read errors truncate the snippet instead of failing.
func ReadSnippet(r io.Reader, n int64) string {
	raw, _ := io.ReadAll(io.LimitReader(r, n))
	return strings.TrimSpace(string(raw))
}
