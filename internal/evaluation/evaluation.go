// Package evaluation scores predicted dialogue acts against a reference set
// by item-level precision, recall and F1.
package evaluation

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dialcore/internal/da"
)

var ErrLengthMismatch = errors.New("predictions length does not match the reference length")

const epsilon = 1e-12

// Scores counts item matches by value equality; confidence is ignored.
type Scores struct {
	TP int
	FP int
	FN int
}

// Evaluate compares acts pairwise.
func Evaluate(reference, predictions []*da.Act) (Scores, error) {
	if len(reference) != len(predictions) {
		return Scores{}, fmt.Errorf("%w: reference=%d predictions=%d", ErrLengthMismatch, len(reference), len(predictions))
	}
	var s Scores
	for i, ref := range reference {
		s.Add(ref, predictions[i])
	}
	return s, nil
}

// Add accumulates one reference/prediction pair.
func (s *Scores) Add(ref, pred *da.Act) {
	for _, it := range ref.Items() {
		if pred.Contains(it) {
			s.TP++
		} else {
			s.FN++
		}
	}
	for _, it := range pred.Items() {
		if !ref.Contains(it) {
			s.FP++
		}
	}
}

func (s Scores) Precision() float64 {
	return float64(s.TP) / (float64(s.TP+s.FP) + epsilon)
}

func (s Scores) Recall() float64 {
	return float64(s.TP) / (float64(s.TP+s.FN) + epsilon)
}

func (s Scores) F1() float64 {
	p, r := s.Precision(), s.Recall()
	return 2 * p * r / (p + r + epsilon)
}

func (s Scores) String() string {
	return fmt.Sprintf("PRECISION:\t%.3f\nRECALL:\t\t%.3f\nF-1:\t\t%.3f", s.Precision(), s.Recall(), s.F1())
}

// Record is one reference entry: the user utterance and its gold act.
type Record struct {
	Usr string `json:"usr"`
	DA  string `json:"DA"`
}

func ReadReference(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode reference: %w", err)
	}
	return records, nil
}

func LoadReference(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadReference(f)
}

// Acts parses every record's gold act. A malformed act fails the whole set.
func Acts(records []Record) ([]*da.Act, error) {
	out := make([]*da.Act, 0, len(records))
	for i, rec := range records {
		act, err := da.Parse(rec.DA)
		if err != nil {
			return nil, fmt.Errorf("reference record %d: %w", i, err)
		}
		out = append(out, act)
	}
	return out, nil
}

// ReadPredictions reads one Cambridge act per line. Blank lines are empty acts.
func ReadPredictions(r io.Reader) ([]*da.Act, error) {
	var out []*da.Act
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		act, err := da.Parse(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, act)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func LoadPredictions(path string) ([]*da.Act, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPredictions(f)
}

func WritePredictions(w io.Writer, acts []*da.Act) error {
	bw := bufio.NewWriter(w)
	for _, act := range acts {
		if _, err := fmt.Fprintln(bw, act.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
