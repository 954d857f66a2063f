package nlu

import (
	"strings"

	"dialcore/internal/da"
	"dialcore/internal/tokens"
)

type timeCue struct {
	intent   string
	timeType string
	pos      []string
	neg      []string
}

var arrivalPhrases = []string{"příjezd", "přijet", "dorazit", "abych přijel", "abych přijela", "chci být", "chtěl bych být"}

// timeCues is checked in order; the first entry whose positive phrases occur
// in the context and whose negative phrases are absent from the whole
// utterance wins. The last entry is the default.
var timeCues = []timeCue{
	{intent: "confirm", timeType: "departure", pos: []string{"jede to", "odjíždí to", "je výchozí", "má to odjezd", "je odjezd", "pojede to"}},
	{intent: "confirm", timeType: "arrival", pos: []string{"přijede to", "přijíždí to", "má to příjezd", "je příjezd"}},
	{intent: "confirm", pos: []string{"je to", "myslíte", "myslíš"}},
	{intent: "deny", timeType: "departure", pos: []string{
		"nechci jet", "nejedu", "nechci odjíždět", "nechci odjezd", "nechci vyjet", "nechci vyjíždět",
		"nechci vyrážet", "nechci vyrazit",
	}},
	{intent: "deny", timeType: "arrival", pos: []string{"nechci přijet", "nechci přijíždět", "nechci příjezd", "nechci dorazit"}},
	{intent: "deny", pos: []string{"ne", "nechci"}},
	{
		intent:   "inform",
		timeType: "departure",
		pos: []string{
			"TASK=find_connection", "odjezd", "odjíždet", "odjíždět", "odjíždět v", "odjíždí", "odjet",
			"jedu", "jede", "vyrážím", "vyrážet", "vyrazit", "bych jel", "bych jela", "bych jet",
			"bych tam jel", "bych tam jela", "bych tam jet",
			"abych jel", "abych jela", "jak se dostanu", "kdy jede", "jede nějaký",
			"jede nějaká", "VEHICLE=tram", "chci jet", "chtěl jet", "chtěla jet",
		},
		neg: arrivalPhrases,
	},
	{intent: "inform", timeType: "arrival", pos: arrivalPhrases},
	{intent: "inform"},
}

var nowIgnorePhrases = []string{"no a", "kolik je", "neslyším", "už mi neříká"}

func isTimeToken(w string) bool {
	return strings.HasPrefix(w, "TIME_") || strings.HasPrefix(w, "TIME=")
}

func matchTimeCue(ctx, whole tokens.List) timeCue {
	for _, c := range timeCues {
		if ctx.AnyPhraseIn(c.pos) && !whole.AnyPhraseIn(c.neg) {
			return c
		}
	}
	return timeCues[len(timeCues)-1]
}

func parseTime(u tokens.List, act *da.Act) {
	count := 0
	for _, w := range u {
		if isTimeToken(w) {
			count++
		}
	}

	lastType := ""
	lastPos := 0
	for i, w := range u {
		if !isTimeToken(w) {
			continue
		}
		value := w[strings.IndexByte(w, '=')+1:]
		rel := i >= 1 && u[i-1] == "za"

		ctx := u
		if count > 1 {
			ctx = u.Window(lastPos, i)
		}
		if value == "now" {
			if ctx.AnyPhraseIn(nowIgnorePhrases) {
				continue
			}
			rel = true
		}

		cue := matchTimeCue(ctx, u)
		timeType := cue.timeType
		if count > 1 && timeType == "" {
			timeType = lastType
		}
		lastType = timeType

		slot := timeType + "_time"
		if rel {
			slot = timeType + "_time_rel"
		}
		act.Append(da.NewItem(cue.intent, strings.TrimLeft(slot, "_"), value))
		lastPos = i + 1
	}
}

var departureConfirmPhrases = []string{"jede to", "odjíždí to", "pojede to", "má to odjezd", "je odjezd"}

// dateIntent decides confirm/deny/inform from the five tokens before i.
func dateIntent(u tokens.List, i int) string {
	ctx := u.Window(i-5, i)
	switch {
	case ctx.AnyPhraseIn(departureConfirmPhrases):
		return "confirm"
	case ctx.Contains("nechci"):
		return "deny"
	default:
		return "inform"
	}
}

func parseDateRel(u tokens.List, act *da.Act) {
	for i, w := range u {
		if value, ok := strings.CutPrefix(w, "DATE_REL="); ok {
			act.AppendUnique(da.NewItem(dateIntent(u, i), "date_rel", value))
		}
	}
}

func parseAMPM(u tokens.List, act *da.Act) {
	if u.Contains("dobrou") {
		return
	}
	for i, w := range u {
		if value, ok := strings.CutPrefix(w, "AMPM="); ok {
			act.Append(da.NewItem(dateIntent(u, i), "ampm", value))
		}
	}
}

func parseVehicle(u tokens.List, act *da.Act) {
	intent := "inform"
	switch {
	case u.PhraseIn("jede to"):
		intent = "confirm"
	case u.AnyPhraseIn([]string{"nechci jet", "bez použití"}):
		intent = "deny"
	}
	for _, w := range u {
		if value, ok := strings.CutPrefix(w, "VEHICLE="); ok {
			act.Append(da.NewItem(intent, "vehicle", value))
		}
	}
}

func parseTask(u tokens.List, act *da.Act) {
	intent := "inform"
	if u.PhraseIn("nechci nehledám") {
		intent = "deny"
	}
	for _, w := range u {
		if value, ok := strings.CutPrefix(w, "TASK="); ok {
			act.Append(da.NewItem(intent, "task", value))
		}
	}
}

func parseTrainName(u tokens.List, act *da.Act) {
	for _, w := range u {
		if value, ok := strings.CutPrefix(w, "TRAIN_NAME="); ok {
			act.Append(da.NewItem("inform", "train_name", value))
		}
	}
}
