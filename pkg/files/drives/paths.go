package drives

import (
	"path"
	"strings"
)

// Split breaks a drive path into its upper-cased drive letter and the
// backend-local path, which is always rooted. The selection root "" yields
// two empty strings.
func Split(p string) (letter, local string) {
	if p == "" {
		return "", ""
	}
	i := strings.IndexByte(p, ':')
	if i <= 0 {
		return "", ""
	}
	letter = strings.ToUpper(p[:i])
	local = p[i+1:]
	if local == "" {
		local = "/"
	}
	return letter, path.Clean("/" + strings.TrimPrefix(local, "/"))
}

// Join builds a drive path from a letter and a backend-local path.
func Join(letter, local string) string {
	local = path.Clean("/" + strings.TrimPrefix(local, "/"))
	if local == "/" {
		return letter + ":"
	}
	return letter + ":" + local
}

// Root returns the drive root path of letter.
func Root(letter string) string {
	return letter + ":"
}

// Parent truncates p at its last separator. The parent of a drive root is
// the selection root "".
func Parent(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Base returns the last element of p. For a drive root it is the drive path itself.
func Base(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Child joins a drive path and an entry name.
func Child(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// IsRoot reports whether p addresses a drive root.
func IsRoot(p string) bool {
	letter, local := Split(p)
	return letter != "" && local == "/"
}

// Within reports whether p equals dir or lies below it. Comparison is case-insensitive.
func Within(p, dir string) bool {
	p, dir = strings.ToLower(p), strings.ToLower(strings.TrimSuffix(dir, "/"))
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// ValidName reports whether name can be used as a single path element.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\:*?\"<>|")
}
