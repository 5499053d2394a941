package db

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxSanitizedNameLen = 40

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateVideoID builds a video identifier of the form
// {sanitizedFilename}_{unixTimestamp}_{8-hex}. The hex suffix keeps two
// uploads of the same file in the same second from colliding.
func GenerateVideoID(filename string, now time.Time) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	return SanitizeFilename(filename) + "_" +
		strconv.FormatInt(now.Unix(), 10) + "_" +
		hex.EncodeToString(suffix)
}

// SanitizeFilename lowercases the base name, drops the extension, and
// collapses every non-alphanumeric run into a single underscore.
func SanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)

	base = nonAlnum.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")

	if base == "" {
		base = "video"
	}
	if len(base) > maxSanitizedNameLen {
		base = strings.Trim(base[:maxSanitizedNameLen], "_")
	}

	return base
}
