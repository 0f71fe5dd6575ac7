package emit

import (
	"fmt"
	"os"
	"strings"

	"github.com/roach88/flatkey/internal/doc"
)

// EnvFile collects ExportEnv calls and writes them as NAME=value lines.
// SetOutput pairs are ignored - only derived env names land in the file.
// Nothing touches the filesystem until Flush, keeping the
// whole-or-nothing rule intact even for sinks wired before an error.
type EnvFile struct {
	Path string

	lines []string
}

// NewEnvFile creates an env-file sink for the given path.
func NewEnvFile(path string) *EnvFile {
	return &EnvFile{Path: path}
}

// SetOutput implements Emitter.
func (f *EnvFile) SetOutput(string, doc.Value) error { return nil }

// ExportEnv implements Emitter.
func (f *EnvFile) ExportEnv(name, value string) error {
	f.lines = append(f.lines, fmt.Sprintf("%s=%s\n", name, quoteEnvValue(value)))
	return nil
}

// Info implements Emitter.
func (f *EnvFile) Info(string, ...any) {}

// Flush writes the collected lines to Path, replacing any existing file.
func (f *EnvFile) Flush() error {
	return os.WriteFile(f.Path, []byte(strings.Join(f.lines, "")), 0o644)
}

// quoteEnvValue quotes a value when it would not survive a plain
// NAME=value line: empty, whitespace, quotes, or shell-significant
// characters force double quoting with backslash escapes.
func quoteEnvValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\"'\\$`#") {
		return v
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
