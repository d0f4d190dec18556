package gitobject

import "strings"

// cleanPath turns a caller supplied path into the slash separated form used
// to address tree entries. Surrounding whitespace and slashes are dropped,
// repeated slashes collapse and "." components vanish. The root is "".
// ".." is rejected because trees have no parent links.
func cleanPath(p string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "", nil
	}

	parts := strings.Split(trimmed, "/")
	kept := parts[:0]
	for _, part := range parts {
		switch {
		case part == "" || part == ".":
			continue
		case part == "..":
			return "", NewInvalidPathError(p, "path contains parent directory references (..)")
		case strings.IndexByte(part, 0) >= 0:
			return "", NewInvalidPathError(p, "path contains a NUL byte")
		}
		kept = append(kept, part)
	}

	return strings.Join(kept, "/"), nil
}

// cleanFilePath is cleanPath for paths that must name an entry: the root is
// not allowed, and neither is a trailing slash.
func cleanFilePath(p string) (string, error) {
	if strings.HasSuffix(strings.TrimSpace(p), "/") {
		return "", NewInvalidPathError(p, "file path cannot end with a slash")
	}

	cleaned, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return "", NewInvalidPathError(p, "file path cannot be empty")
	}

	return cleaned, nil
}
