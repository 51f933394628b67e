package conditional

import (
	"crypto/md5" //nolint:gosec // fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ETag returns hex(md5(identity ++ unix seconds of lastModified)).
// Two requests share a tag only if they have the same identity and the
// underlying data has the same last-modified second.
func ETag(identity string, lastModified time.Time) string {
	sum := md5.Sum([]byte(identity + strconv.FormatInt(lastModified.Unix(), 10))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Validator holds the current validators of a representation.
type Validator struct {
	LastModified time.Time
	ETag         string
}

// NotModified reports whether the client's cached copy is still fresh.
//
// If-None-Match wins when it matches. Otherwise If-Modified-Since is compared
// against LastModified at second precision. An unparseable date is ignored.
func (v Validator) NotModified(ifNoneMatch, ifModifiedSince string) bool {
	if ifNoneMatch != "" && v.ETag != "" && matchesETag(ifNoneMatch, v.ETag) {
		return true
	}

	if ifModifiedSince == "" {
		return false
	}
	since, err := http.ParseTime(ifModifiedSince)
	if err != nil {
		return false
	}
	return !since.Before(v.LastModified.Truncate(time.Second))
}

func matchesETag(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		candidate = strings.Trim(candidate, `"`)
		if candidate == etag {
			return true
		}
	}
	return false
}

// CachePolicy controls the Cache-Control header of cacheable responses.
type CachePolicy struct {
	BrowserMaxAge time.Duration // max-age
	SharedMaxAge  time.Duration // s-maxage
}

// DefaultPolicy is one minute for browsers and five for shared caches.
var DefaultPolicy = CachePolicy{BrowserMaxAge: time.Minute, SharedMaxAge: 5 * time.Minute}

// Header renders the Cache-Control value.
func (p CachePolicy) Header() string {
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d",
		int64(p.BrowserMaxAge/time.Second), int64(p.SharedMaxAge/time.Second))
}

// Apply sets ETag, Last-Modified, and Cache-Control on w. Call before WriteHeader.
func Apply(w http.ResponseWriter, v Validator, p CachePolicy) {
	h := w.Header()
	if v.ETag != "" {
		h.Set("ETag", `"`+v.ETag+`"`)
	}
	if !v.LastModified.IsZero() {
		h.Set("Last-Modified", v.LastModified.UTC().Format(http.TimeFormat))
	}
	h.Set("Cache-Control", p.Header())
}
