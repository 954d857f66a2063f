package nlu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialcore/internal/cldb"
	"dialcore/internal/da"
	"dialcore/internal/preprocess"
)

func newTestParser(opts ...Option) *Parser {
	return NewParser(cldb.Builtin(), opts...)
}

func TestParseScenarios(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{name: "from city", utterance: "chci jet z Prahy", want: "inform(from_city=Praha)&inform(task=find_connection)"},
		{name: "to city", utterance: "chci jet do Prahy", want: "inform(to_city=Praha)&inform(task=find_connection)"},
		{name: "from and to stop", utterance: "z Anděla na Florenc", want: "inform(from_stop=Anděl,to_stop=Florenc)"},
		{name: "adjacent stops", utterance: "Anděl Florenc", want: "inform(from_stop=Anděl,to_stop=Florenc)"},
		{name: "unqualified city", utterance: "Praha", want: "inform(city=Praha)"},
		{name: "in city", utterance: "v Praze", want: "inform(in_city=Praha)"},
		{name: "deny waypoint", utterance: "nechci jet z Prahy", want: "deny(from_city=Praha)"},
		{name: "ambiguous defaults to city", utterance: "do Kladna", want: "inform(to_city=Kladno)"},
		{name: "ambiguous resolved to stop", utterance: "na zastávku Kladno", want: "inform(to_stop=Kladno)"},
		{name: "train name after vehicle", utterance: "vlakem Jizera", want: "inform(vehicle=train)&inform(train_name=Jizera)"},
		{name: "clock time", utterance: "v osm", want: "inform(time=8:00)"},
		{name: "relative time", utterance: "za deset minut", want: "inform(time_rel=0:10)"},
		{name: "greeting", utterance: "Dobrý den", want: "hello()"},
		{name: "thanks and bye", utterance: "děkuji, nashledanou", want: "bye()&thankyou()"},
		{name: "affirm", utterance: "ano", want: "affirm()"},
		{name: "current time", utterance: "kolik je hodin", want: "request(current_time)"},
		{name: "dangling from", utterance: "chci jet z", want: "inform(task=find_connection)&inform(from=*)"},
		{name: "noise", utterance: "_noise_", want: "null()"},
		{name: "silence", utterance: "", want: "silence()"},
		{name: "other", utterance: "_other_", want: "other()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.utterance).Act
			want := da.MustParse(tt.want)
			if !got.Equal(want) {
				t.Fatalf("Parse(%q)=%s, want %s", tt.utterance, got, want)
			}
		})
	}
}

func TestParseResultDetails(t *testing.T) {
	p := newTestParser()
	res := p.Parse("z Bílé Hory do Prahy")
	assert.Equal(t, []string{"z", "STOP=Bílá Hora", "do", "CITY=Praha"}, []string(res.Abstracted))
	assert.Equal(t, []int{1, 2, 1, 1}, res.Lengths)
	assert.Contains(t, res.Labels, "STOP")
	assert.Contains(t, res.Labels, "VEHICLE")
	assert.False(t, res.Override)
}

func TestParseIsDeterministic(t *testing.T) {
	p := newTestParser()
	for _, utt := range []string{"chci jet z Anděla na Florenc v půl osmé", "Kladno", "kolik je hodin"} {
		first := p.Parse(utt).Act
		second := p.Parse(utt).Act
		require.Equal(t, first.Items(), second.Items(), utt)
	}
}

func TestParseRoundTrip(t *testing.T) {
	p := newTestParser()
	for _, utt := range []string{"z Anděla na Florenc", "chci jet do Prahy zítra ráno", "vlakem Jizera", "Anděl Florenc"} {
		got := p.Parse(utt).Act
		back, err := da.Parse(got.String())
		require.NoError(t, err)
		assert.True(t, got.Equal(back), "%q: %s != %s", utt, got, back)
	}
}

func TestParseFractionalTime(t *testing.T) {
	p := newTestParser()
	res := p.Parse("v půl osmé")
	assert.Contains(t, []string(res.Abstracted), "TIME_2=7:30")
	assert.True(t, res.Act.Contains(da.NewItem("inform", "time", "7:30")), res.Act.String())
}

func TestOverrides(t *testing.T) {
	pre := preprocess.New(nil)
	src := "# comment\n\nHaló, slyšíte\tcanthearyou()\n"
	o, err := ReadOverrides(strings.NewReader(src), pre.Lower)
	require.NoError(t, err)

	p := newTestParser(WithOverrides(o), WithPreprocessor(pre))
	res := p.Parse("haló, slyšíte")
	assert.True(t, res.Override)
	assert.Equal(t, "canthearyou()", res.Act.String())

	o, err = ReadOverrides(strings.NewReader("ahoj\t\n"), pre.Lower)
	require.NoError(t, err)
	require.Contains(t, o, "ahoj")
	res = newTestParser(WithOverrides(o), WithPreprocessor(pre)).Parse("ahoj")
	assert.False(t, res.Override)
	assert.Equal(t, "hello()", res.Act.String())

	_, err = ReadOverrides(strings.NewReader("bad line\n"), nil)
	assert.Error(t, err)
	_, err = ReadOverrides(strings.NewReader("x\tinform(a=\n"), nil)
	assert.ErrorContains(t, err, "line 1")
}

func TestKeywordParser(t *testing.T) {
	var k KeywordParser
	assert.Equal(t, "greet()", k.Parse("Hello there").String())
	assert.Equal(t, "goodbye()", k.Parse("ok, bye").String())
	assert.Equal(t, 0, k.Parse("what").Len())
}
