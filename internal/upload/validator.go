// Package upload validates and stores user-submitted cover images.
//
// The policy is extension filtering only: it checks the characters after
// the final dot, never the file bytes. A renamed executable with a .png
// extension passes — the check defends the storage directory's naming, not
// its contents. Don't quietly add magic-number sniffing here; that would be
// a behaviour change callers need to know about (and test for).
package upload

import (
	"path/filepath"
	"strings"
)

// allowedExtensions is the allow-list of image extensions, compared
// case-insensitively against the substring after the LAST dot.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// Allowed reports whether filename has an allow-listed image extension.
//
// Rules:
//   - no dot at all → rejected ("README" has no extension)
//   - only the LAST dot counts ("archive.tar.png" is a png as far as
//     this check goes)
//   - comparison is case-insensitive ("COVER.PNG" is fine)
func Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	ext := strings.ToLower(filename[i+1:])
	return allowedExtensions[ext]
}

// Sanitize transforms an untrusted client filename into a name safe to use
// as a key inside the storage directory.
//
// It strips directory components (both separators, so "..\..\evil.png" from
// a Windows client is handled), drops control characters and path-hostile
// punctuation, and collapses anything that could traverse upward. The result
// is always a bare name with no separators; a name that sanitizes to nothing
// (or to only dots) becomes "file".
func Sanitize(filename string) string {
	// Take the last path component under BOTH separator conventions.
	// filepath.Base alone is platform-dependent.
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f: // control characters
		case r == '/' || r == '\\' || r == ':':
		default:
			b.WriteRune(r)
		}
	}
	name = b.String()

	// "..", ".", or an all-dots remnant would still be path-hostile.
	if strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}
