// Package filter restricts and rewrites resolved key-paths before
// emission: an optional pattern selects which keys pass (with the matched
// text deleted from the key), and an optional prefix derives
// environment-variable-safe names for the survivors.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/flatkey/internal/doc"
	"github.com/roach88/flatkey/internal/resolve"
)

// Entry is one key/value pair that passed the filter, in the resolved
// map's original order.
type Entry struct {
	// Key is the output key: the resolved key-path with the first
	// pattern match deleted (or unchanged when no pattern was given).
	Key string

	// EnvKey is the derived environment variable name, or "" when no
	// env prefix was configured.
	EnvKey string

	// Value is the resolved value, untouched by the rewrite.
	Value doc.Value
}

// PatternError reports a key-filter pattern that failed to compile.
// It is fatal for the whole run - no entries are produced.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid key filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// IsPatternError reports whether err is a PatternError.
func IsPatternError(err error) bool {
	var pe *PatternError
	return errors.As(err, &pe)
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Apply filters the resolved map. With an empty pattern every entry
// passes through with its key unchanged. With a pattern, only matching
// keys pass, and the first matched region is deleted from each.
//
// With a non-empty envPrefix, each passing entry also gets
// "<prefix>_<key>" with "." and "-" replaced by "_" as its EnvKey.
//
// The pattern is compiled before any entry is examined, so a malformed
// pattern fails the run with zero output.
func Apply(res *resolve.Resolved, pattern, envPrefix string) ([]Entry, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
	}

	var entries []Entry
	for _, key := range res.Keys() {
		outputKey := key
		if re != nil {
			loc := re.FindStringIndex(key)
			if loc == nil {
				continue
			}
			outputKey = key[:loc[0]] + key[loc[1]:]
		}

		value, _ := res.Get(key)
		entry := Entry{Key: outputKey, Value: value}
		if envPrefix != "" {
			entry.EnvKey = envPrefix + "_" + envKeyReplacer.Replace(outputKey)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
