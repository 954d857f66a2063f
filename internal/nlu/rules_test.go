package nlu

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"dialcore/internal/cldb"
	"dialcore/internal/da"
	"dialcore/internal/tokens"
)

func TestCollapseNumbers(t *testing.T) {
	tests := []struct {
		in   tokens.List
		want tokens.List
	}{
		{in: tokens.List{"v", "NUMBER=8"}, want: tokens.List{"v", "TIME_1=8:00"}},
		{in: tokens.List{"NUMBER=0.5", "NUMBER=8"}, want: tokens.List{"TIME_2=7:30"}},
		{in: tokens.List{"NUMBER=0.25", "na", "NUMBER=8"}, want: tokens.List{"TIME_3=7:15"}},
		{in: tokens.List{"NUMBER=0.75", "na", "NUMBER=10", "ráno"}, want: tokens.List{"TIME_3=9:45", "ráno"}},
		{in: tokens.List{"NUMBER=0.5", "hodiny"}, want: tokens.List{"TIME_2=0:30"}},
		{in: tokens.List{"NUMBER=8", "a", "NUMBER=0.5", "hodiny"}, want: tokens.List{"TIME_4=8:30"}},
		{in: tokens.List{"NUMBER=8", "hodin", "a", "NUMBER=5", "minut"}, want: tokens.List{"TIME_5=8:05"}},
		{in: tokens.List{"NUMBER=8", "hodin", "NUMBER=20", "minut"}, want: tokens.List{"TIME_4=8:20"}},
		{in: tokens.List{"NUMBER=8", "hodin"}, want: tokens.List{"TIME_2=8:00"}},
		{in: tokens.List{"NUMBER=8", "NUMBER=30"}, want: tokens.List{"TIME_2=8:30"}},
		{in: tokens.List{"NUMBER=8", "NUMBER=0", "NUMBER=5"}, want: tokens.List{"TIME_3=8:05"}},
		{in: tokens.List{"NUMBER=8", "NUMBER=5"}, want: tokens.List{"NUMBER=8", "NUMBER=5"}},
		{in: tokens.List{"za", "NUMBER=10", "minut"}, want: tokens.List{"za", "TIME_2=0:10"}},
		{in: tokens.List{"za", "hodinu"}, want: tokens.List{"za", "TIME_1=1:00"}},
		{in: tokens.List{"za", "minutu"}, want: tokens.List{"za", "TIME_1=0:01"}},
		{in: tokens.List{"NUMBER=30"}, want: tokens.List{"NUMBER=30"}},
	}
	for _, tt := range tests {
		in := tt.in.Clone()
		got := CollapseNumbers(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("CollapseNumbers(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
		if diff := cmp.Diff(in, tt.in); diff != "" {
			t.Fatalf("CollapseNumbers mutated its input:\n%s", diff)
		}
	}
}

func TestParseTimeContext(t *testing.T) {
	tests := []struct {
		in   tokens.List
		want string
	}{
		{in: tokens.List{"v", "TIME_1=8:00"}, want: "inform(time=8:00)"},
		{in: tokens.List{"jede", "to", "v", "TIME_1=8:00"}, want: "confirm(departure_time=8:00)"},
		{in: tokens.List{"chci", "přijet", "v", "TIME_1=8:00"}, want: "inform(arrival_time=8:00)"},
		{in: tokens.List{"chci", "jet", "v", "TIME_1=8:00"}, want: "inform(departure_time=8:00)"},
		{in: tokens.List{"za", "TIME_2=0:10"}, want: "inform(time_rel=0:10)"},
		{in: tokens.List{"TIME=now"}, want: "inform(time_rel=now)"},
		{in: tokens.List{"kolik", "je", "TIME=now"}, want: ""},
		{
			in:   tokens.List{"odjezd", "v", "TIME_1=8:00", "a", "ne", "v", "TIME_1=9:00"},
			want: "inform(departure_time=8:00)&deny(departure_time=9:00)",
		},
	}
	for _, tt := range tests {
		got := da.New()
		parseTime(tt.in, got)
		if !got.Equal(da.MustParse(tt.want)) {
			t.Fatalf("parseTime(%v)=%s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWaypointBackoffOnTie(t *testing.T) {
	g := waypointGrammar{
		prefix: "STOP=",
		suffix: "stop",
		roles: []rolePhrases{
			{role: roleFrom, phrases: []string{"u"}},
			{role: roleTo, phrases: []string{"u"}},
		},
	}
	got := da.New()
	parseWaypoints(tokens.List{"u", "STOP=Anděl"}, got, g)
	items := got.Items()
	if len(items) != 2 {
		t.Fatalf("items=%v, want 2", items)
	}
	if items[0].Slot != "from_stop" || items[0].Confidence != 0.501 {
		t.Fatalf("first=%+v, want from_stop at 0.501", items[0])
	}
	if items[1].Slot != "to_stop" || items[1].Confidence != 0.499 {
		t.Fatalf("second=%+v, want to_stop at 0.499", items[1])
	}
}

func TestWaypointFollowingContext(t *testing.T) {
	got := da.New()
	parseWaypoints(tokens.List{"STOP=Anděl", "je", "cíl"}, got, stopGrammar)
	if want := da.MustParse("inform(from_stop=Anděl)"); !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestClosestRolesPrefersLaterEnd(t *testing.T) {
	ctx := tokens.List{"z", "prahy", "do"}
	got := closestRoles(ctx, cityGrammar.roles)
	if diff := cmp.Diff([]string{roleTo}, got); diff != "" {
		t.Fatalf("closestRoles mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrect(t *testing.T) {
	tests := []struct {
		in   tokens.List
		want tokens.List
	}{
		{in: tokens.List{"v", "STOP=Praga"}, want: tokens.List{"v", "CITY=Praha"}},
		{in: tokens.List{"STOP=Lužin", "STOP=Na Chmelnici"}, want: tokens.List{"STOP=Lužin", "na", "STOP=Chmelnici"}},
		{in: tokens.List{"STOP=Nová", "spojení"}, want: tokens.List{"nové", "spojení"}},
		// the generic STOP=Metra entry runs first
		{in: tokens.List{"jsem", "v", "STOP=Metra"}, want: tokens.List{"jsem", "v", "metra"}},
		{in: tokens.List{"STOP=Nádraží", "STOP=Nádraží"}, want: tokens.List{"nádraží", "STOP=Nádraží"}},
	}
	for _, tt := range tests {
		got := Correct(tt.in, DefaultCorrections)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Correct(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestAbstractDisambiguation(t *testing.T) {
	db := cldb.Builtin()
	got := Abstract(db, tokens.List{"ze", "stanice", "kladno"})
	if diff := cmp.Diff(tokens.List{"ze", "stanice", "STOP=Kladno"}, got.Tokens); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	got = Abstract(db, tokens.List{"jede", "jizera"})
	if diff := cmp.Diff(tokens.List{"jede", "TRAIN_NAME=Jizera"}, got.Tokens); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	got = Abstract(db, tokens.List{"jizera"})
	if diff := cmp.Diff(tokens.List{"STOP=Jizera"}, got.Tokens); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaRules(t *testing.T) {
	tests := []struct {
		utt  string
		want string
	}{
		{utt: "chci začít od začátku", want: "restart()"},
		{utt: "zopakujte to prosím", want: "repeat()"},
		{utt: "kolik je tam přestupů", want: "request(num_transfers)"},
		{utt: "bez přestupu", want: "inform(num_transfers=0)"},
		{utt: "chci přímé spojení", want: "inform(num_transfers=0)"},
		{utt: "druhé spojení", want: "inform(alternative=2)"},
		{utt: "nechci předchozí spojení", want: "deny(alternative=prev)"},
		{utt: "a další", want: "inform(alternative=next)"},
		{utt: "ne", want: "negate()"},
		{utt: "ok", want: "ack()"},
		{utt: "nevím", want: "help()"},
		{utt: "jako ve dne", want: "inform(ampm=pm)"},
		{utt: "jedu přes", want: "inform(via=*)"},
		{utt: "ano ok", want: "affirm()"},
		{utt: "začneme znovu", want: "restart()"},
		{utt: "začneme znovu zopakujte", want: "restart()"},
		{utt: "nechci ukončit hovor", want: ""},
		{utt: "ano nechci", want: "negate()"},
		{utt: "ne z prahy", want: ""},
	}
	for _, tt := range tests {
		got := da.New()
		parseMeta(tokens.Split(tt.utt), got)
		got.MergeDuplicates()
		if want := da.MustParse(tt.want); !got.Equal(want) {
			t.Fatalf("parseMeta(%q)=%s, want %s", tt.utt, got, want)
		}
	}
}

func TestParseTaskDeny(t *testing.T) {
	tests := []struct {
		utt  string
		want string
	}{
		{utt: "TASK=find_connection", want: "inform(task=find_connection)"},
		{utt: "nechci TASK=find_connection", want: "inform(task=find_connection)"},
		{utt: "nehledám TASK=find_connection", want: "inform(task=find_connection)"},
		{utt: "nechci nehledám TASK=find_connection", want: "deny(task=find_connection)"},
	}
	for _, tt := range tests {
		got := da.New()
		parseTask(tokens.Split(tt.utt), got)
		if want := da.MustParse(tt.want); !got.Equal(want) {
			t.Fatalf("parseTask(%q)=%s, want %s", tt.utt, got, want)
		}
	}
}
