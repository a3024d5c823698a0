// Package envfile reads shell-style KEY=VALUE files and expands variable
// references in option values. It replaces sourcing files through a shell:
// only plain assignments are understood, anything else is skipped.
package envfile

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Parse reads KEY=VALUE lines from r. Blank lines, comment lines and lines
// without a '=' are silently skipped. A leading "export " is tolerated and
// single or double quotes around the value are stripped.
func Parse(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// ParseFile parses the file at path with Parse.
func ParseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Expand replaces ${VAR} and $VAR references in s using lookup. References
// to variables the lookup does not know are left untouched, so values like
// "$basearch" survive for the package manager to expand later.
func Expand(s string, lookup func(string) (string, bool)) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			out.WriteByte(s[i])
			continue
		}
		name, width := parseRef(s[i+1:])
		if name == "" {
			out.WriteByte(s[i])
			continue
		}
		if value, ok := lookup(name); ok {
			out.WriteString(value)
		} else {
			out.WriteString(s[i : i+1+width])
		}
		i += width
	}
	return out.String()
}

// ExpandEnv expands references in s against the process environment.
func ExpandEnv(s string) string {
	return Expand(s, os.LookupEnv)
}

// parseRef reads a variable reference right after a '$'. It returns the
// variable name and the number of input bytes the reference spans.
func parseRef(s string) (string, int) {
	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	var i int
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return s[:i], i
}

func isNameByte(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9'
}
