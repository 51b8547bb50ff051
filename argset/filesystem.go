package argset

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSystemReader is the file access used for answer files and path completion.
type FileSystemReader interface {
	FileExists(name string) bool
	DirectoryExists(name string) bool
	GetLines(name string) ([]string, error)
	// Glob returns the entries matching a doublestar pattern.
	Glob(pattern string) ([]string, error)
}

// OSFileSystem reads from the operating system.
type OSFileSystem struct{}

func (OSFileSystem) FileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func (OSFileSystem) DirectoryExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.IsDir()
}

func (OSFileSystem) GetLines(name string) ([]string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return splitLines(data), nil
}

func (OSFileSystem) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// FS adapts an fs.FS, such as fstest.MapFS or embed.FS.
type FS struct {
	FS fs.FS
}

func (f FS) FileExists(name string) bool {
	info, err := fs.Stat(f.FS, clean(name))
	return err == nil && !info.IsDir()
}

func (f FS) DirectoryExists(name string) bool {
	info, err := fs.Stat(f.FS, clean(name))
	return err == nil && info.IsDir()
}

func (f FS) GetLines(name string) ([]string, error) {
	data, err := fs.ReadFile(f.FS, clean(name))
	if err != nil {
		return nil, err
	}
	return splitLines(data), nil
}

func (f FS) Glob(pattern string) ([]string, error) {
	return doublestar.Glob(f.FS, clean(pattern))
}

// clean turns an OS-style path into an fs.FS path.
func clean(name string) string {
	name = filepath.ToSlash(name)
	name = strings.TrimPrefix(name, "./")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// answerFileTokens turns answer file lines into tokens: lines are trimmed,
// blank lines and lines starting with '#' are dropped.
func answerFileTokens(lines []string) []string {
	tokens := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, line)
	}
	return tokens
}

// escapeGlob quotes doublestar metacharacters in a literal path prefix.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// completePath returns the entries of fsys whose path starts with prefix.
// Directories get a trailing slash.
func completePath(fsys FileSystemReader, prefix string) []string {
	matches, err := fsys.Glob(escapeGlob(prefix) + "*")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !strings.HasPrefix(m, prefix) && strings.HasPrefix(prefix, "./") {
			m = "./" + m
		}
		if fsys.DirectoryExists(m) {
			m += "/"
		}
		out = append(out, m)
	}
	return out
}
