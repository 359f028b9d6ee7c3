package routepath

import "strings"

// NormalizeBase turns a deployment base URL into a path prefix.
//
// The base may be a bare path ("/app/"), a path without slashes ("app") or a
// full URL ("https://example.com/app/"), in which case only its path is kept.
// The result starts with "/" and has no trailing slash; root yields "".
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if i := strings.Index(base, "://"); i >= 0 {
		rest := base[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			base = rest[j:]
		} else {
			base = ""
		}
	}
	base = strings.Trim(base, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// StripBase removes a normalized base prefix from path.
// It reports false when path lies outside the base.
func StripBase(base, path string) (string, bool) {
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}

// JoinBase prefixes path with a normalized base.
func JoinBase(base, path string) string {
	if base == "" {
		return path
	}
	if path == "/" {
		return base + "/"
	}
	return base + path
}
