package nlu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"dialcore/internal/da"
)

// Overrides maps lowercased raw utterances straight to dialogue acts, for
// inputs the rules cannot handle.
type Overrides map[string]*da.Act

// ReadOverrides parses "utterance<TAB>dialogue act" lines. Blank lines and
// lines starting with # are skipped.
func ReadOverrides(r io.Reader, lower func(string) string) (Overrides, error) {
	if lower == nil {
		lower = strings.ToLower
	}
	out := make(Overrides)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, val, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		act, err := da.Parse(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out[lower(strings.TrimSpace(key))] = act
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOverrides reads an override file from disk.
func LoadOverrides(path string, lower func(string) string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open utt2da: %w", err)
	}
	defer f.Close()
	out, err := ReadOverrides(f, lower)
	if err != nil {
		return nil, fmt.Errorf("read utt2da %s: %w", path, err)
	}
	return out, nil
}
