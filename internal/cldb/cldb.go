// Package cldb is the category label database: an immutable mapping from
// surface word forms to semantic values and their category labels.
package cldb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"dialcore/internal/preprocess"
)

var ErrEmptyDatabase = errors.New("category label database is empty")

// Candidate is one value a form can stand for, with its category labels in
// lexicographic order. More than one label means the value is ambiguous.
type Candidate struct {
	Value  string
	Labels []string
}

func (c Candidate) Ambiguous() bool { return len(c.Labels) > 1 }

// Source is the on-disk layout: category label -> value -> surface forms.
type Source map[string]map[string][]string

// Database is read-only after construction and safe to share between sessions.
type Database struct {
	forms      map[string][]Candidate
	maxFormLen int
	labels     []string
}

// New compiles a Source. Forms are NFC-normalized, lowercased the way
// utterances are and whitespace-normalized;
// candidate values per form and labels per value are sorted lexicographically.
func New(src Source) (*Database, error) {
	acc := make(map[string]map[string]map[string]struct{})
	labelSet := make(map[string]struct{})
	for label, values := range src {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			return nil, fmt.Errorf("empty category label")
		}
		for value, forms := range values {
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("category %q: empty value", label)
			}
			for _, form := range forms {
				key := formKey(strings.Fields(preprocess.Lower(form)))
				if key == "" {
					continue
				}
				if acc[key] == nil {
					acc[key] = make(map[string]map[string]struct{})
				}
				if acc[key][value] == nil {
					acc[key][value] = make(map[string]struct{})
				}
				acc[key][value][label] = struct{}{}
				labelSet[label] = struct{}{}
			}
		}
	}
	if len(acc) == 0 {
		return nil, ErrEmptyDatabase
	}

	db := &Database{forms: make(map[string][]Candidate, len(acc))}
	for key, values := range acc {
		cands := make([]Candidate, 0, len(values))
		for value, labels := range values {
			c := Candidate{Value: value, Labels: make([]string, 0, len(labels))}
			for l := range labels {
				c.Labels = append(c.Labels, l)
			}
			sort.Strings(c.Labels)
			cands = append(cands, c)
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].Value < cands[j].Value })
		db.forms[key] = cands
		if n := len(strings.Split(key, " ")); n > db.maxFormLen {
			db.maxFormLen = n
		}
	}
	for l := range labelSet {
		db.labels = append(db.labels, l)
	}
	sort.Strings(db.labels)
	return db, nil
}

// MustNew is New for static tables; it panics on error.
func MustNew(src Source) *Database {
	db, err := New(src)
	if err != nil {
		panic(err)
	}
	return db
}

// Lookup returns the candidates for an exact token form.
func (db *Database) Lookup(form []string) ([]Candidate, bool) {
	cands, ok := db.forms[formKey(form)]
	if !ok {
		return nil, false
	}
	out := make([]Candidate, len(cands))
	copy(out, cands)
	return out, true
}

// MaxFormLen is the token length of the longest known form.
func (db *Database) MaxFormLen() int { return db.maxFormLen }

// Len is the number of distinct forms.
func (db *Database) Len() int { return len(db.forms) }

// Labels lists every category label in the database.
func (db *Database) Labels() []string {
	return append([]string(nil), db.labels...)
}

// Load reads a Source from a YAML or JSON file (JSON is valid YAML).
func Load(path string) (*Database, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	db, err := New(src)
	if err != nil {
		return nil, fmt.Errorf("compile cldb %s: %w", filepath.Base(path), err)
	}
	return db, nil
}

// LoadWithBuiltin extends the built-in lexicon with the file at path. An
// empty path yields the built-in lexicon alone.
func LoadWithBuiltin(path string) (*Database, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	db, err := New(Merge(BuiltinSource(), src))
	if err != nil {
		return nil, fmt.Errorf("compile cldb %s: %w", filepath.Base(path), err)
	}
	return db, nil
}

func ReadSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cldb %s: %w", filepath.Base(path), err)
	}
	var src Source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode cldb %s: %w", filepath.Base(path), err)
	}
	return src, nil
}

// Merge returns a Source holding the union of both sources.
func Merge(a, b Source) Source {
	out := make(Source, len(a)+len(b))
	for _, src := range []Source{a, b} {
		for label, values := range src {
			if out[label] == nil {
				out[label] = make(map[string][]string, len(values))
			}
			for value, forms := range values {
				out[label][value] = append(out[label][value], forms...)
			}
		}
	}
	return out
}

func formKey(form []string) string {
	return strings.Join(form, " ")
}
