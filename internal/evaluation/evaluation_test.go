package evaluation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialcore/internal/da"
)

func acts(t *testing.T, in ...string) []*da.Act {
	t.Helper()
	out := make([]*da.Act, 0, len(in))
	for _, s := range in {
		act, err := da.Parse(s)
		require.NoError(t, err)
		out = append(out, act)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	ref := acts(t, "inform(from_stop=Anděl,to_stop=Florenc)", "hello()", "request(current_time)")
	pred := acts(t, "inform(from_stop=Anděl,to_stop=Můstek)", "hello()", "")

	s, err := Evaluate(ref, pred)
	require.NoError(t, err)
	assert.Equal(t, Scores{TP: 2, FP: 1, FN: 2}, s)
	assert.InDelta(t, 2.0/3.0, s.Precision(), 1e-9)
	assert.InDelta(t, 0.5, s.Recall(), 1e-9)
	assert.InDelta(t, 2*(2.0/3.0)*0.5/(2.0/3.0+0.5), s.F1(), 1e-9)
	assert.Equal(t, "PRECISION:\t0.667\nRECALL:\t\t0.500\nF-1:\t\t0.571", s.String())
}

func TestEvaluateIgnoresConfidence(t *testing.T) {
	ref := []*da.Act{da.New(da.NewItem("inform", "time", "8:00"))}
	pred := []*da.Act{da.New(da.NewItemConf("inform", "time", "8:00", 0.3))}
	s, err := Evaluate(ref, pred)
	require.NoError(t, err)
	assert.Equal(t, Scores{TP: 1}, s)
}

func TestEvaluateEmptyAndMismatch(t *testing.T) {
	s, err := Evaluate(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "PRECISION:\t0.000\nRECALL:\t\t0.000\nF-1:\t\t0.000", s.String())

	_, err = Evaluate(acts(t, "hello()"), nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch), "err=%v", err)
}

func TestReadReferenceAndPredictions(t *testing.T) {
	records, err := ReadReference(strings.NewReader(`[
		{"usr": "z Anděla", "DA": "inform(from_stop=Anděl)"},
		{"usr": "ahoj", "DA": "hello()"}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "z Anděla", records[0].Usr)

	ref, err := Acts(records)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, ref))
	assert.Equal(t, "inform(from_stop=Anděl)\nhello()\n", buf.String())

	pred, err := ReadPredictions(&buf)
	require.NoError(t, err)
	s, err := Evaluate(ref, pred)
	require.NoError(t, err)
	assert.Equal(t, Scores{TP: 2}, s)
}

func TestMalformedActsAreFatal(t *testing.T) {
	_, err := Acts([]Record{{Usr: "x", DA: "inform(from_stop=Anděl"}})
	var perr *da.ParseError
	assert.True(t, errors.As(err, &perr), "err=%v", err)

	_, err = ReadPredictions(strings.NewReader("hello()\n(broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
