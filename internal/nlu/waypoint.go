package nlu

import (
	"strings"

	"dialcore/internal/da"
	"dialcore/internal/tokens"
)

const (
	roleFrom = "from"
	roleTo   = "to"
	roleVia  = "via"
	roleIn   = "in"
)

type rolePhrases struct {
	role    string
	phrases []string
}

// waypointGrammar configures one waypoint category (stops or cities).
type waypointGrammar struct {
	prefix string // abstract token prefix, e.g. STOP=
	suffix string // slot suffix, e.g. stop
	roles  []rolePhrases
	// inPhrases enables the "in" fallback when non-empty.
	inPhrases []string
}

func (g waypointGrammar) phrases(role string) []string {
	for _, r := range g.roles {
		if r.role == role {
			return r.phrases
		}
	}
	return nil
}

var stopGrammar = waypointGrammar{
	prefix: "STOP=",
	suffix: "stop",
	roles: []rolePhrases{
		{role: roleFrom, phrases: []string{
			"z", "za", "ze", "od", "začátek na", "začáteční",
			"počátek na", "počáteční na", "výchozí na",
			"počáteční", "počátek", "výchozí", "start na", "stojím na",
			"jsem na", "start u", "stojím u", "jsem u", "start",
			"začátek u", "začátek",
		}},
		{role: roleTo, phrases: []string{
			"k", "do", "konec", "na", "konečná", "koncová",
			"cílová", "cíl", "výstupní", "cíl na", "chci na",
		}},
		{role: roleVia, phrases: []string{"přes"}},
	},
}

var cityGrammar = waypointGrammar{
	prefix: "CITY=",
	suffix: "city",
	roles: []rolePhrases{
		{role: roleFrom, phrases: []string{
			"z", "ze", "od", "začátek", "začáteční",
			"počáteční", "počátek", "výchozí", "start",
			"jsem v", "stojím v", "začátek v",
		}},
		{role: roleTo, phrases: []string{
			"k", "do", "konec", "na", "končím",
			"cíl", "vystupuji", "vystupuju",
		}},
		{role: roleVia, phrases: []string{"přes"}},
		{role: roleIn, phrases: []string{"pro", "po"}},
	},
	inPhrases: []string{"v", "ve"},
}

type phraseCue struct {
	intent string
	pos    []string
	neg    []string
}

// A bare "ne" is left out; it collides with negation as in "ne, chci jet z Motola".
var waypointIntentCues = []phraseCue{
	{intent: "confirm", pos: []string{"jede to", "odjíždí to", "je výchozí"}},
	{
		intent: "deny",
		pos:    []string{"nechci", "nejedu", "ne z", "ne od", "ne na", "ne do", "né do", "ne k", "nikoliv", "nechci na", "nechtěl"},
		neg: []string{
			"nechci ukončit hovor", "nechci to tak", "né to nechci", "ne to nechci", "nechci nápovědu",
			"nechci chci", "ne to ne", "ne ne z",
		},
	},
}

type span struct{ start, end int }

// closestRoles returns the roles whose trigger ends last in the context; on
// equal ends the earlier start wins. Roles tied on the exact span are all
// returned.
func closestRoles(ctx tokens.List, roles []rolePhrases) []string {
	best := span{start: -2, end: -1}
	var out []string
	for _, r := range roles {
		s, e := ctx.FirstPhraseSpan(r.phrases)
		cur := span{start: s, end: e}
		switch {
		case cur.end > best.end || (cur.end == best.end && cur.start < best.start):
			best = cur
			out = []string{r.role}
		case cur == best && len(out) > 0:
			out = append(out, r.role)
		}
	}
	return out
}

func wpIntent(ctx tokens.List) string {
	for _, c := range waypointIntentCues {
		if ctx.AnyPhraseIn(c.pos) && !ctx.AnyPhraseIn(c.neg) {
			return c.intent
		}
	}
	return "inform"
}

func parseWaypoints(u tokens.List, act *da.Act, g waypointGrammar) {
	n := len(u)
	lastPos := 0
	for i, w := range u {
		if !strings.HasPrefix(w, g.prefix) {
			continue
		}
		name := w[len(g.prefix):]
		pre := u.Window(max(lastPos, i-5), i)

		roles := closestRoles(pre, g.roles)
		if len(roles) == 0 {
			next := u.Window(i, i+3)
			switch {
			case next.AnyPhraseIn(g.phrases(roleFrom)) || next.AnyPhraseIn(g.phrases(roleVia)):
				roles = []string{roleTo}
			case next.AnyPhraseIn(g.phrases(roleTo)):
				roles = []string{roleFrom}
			}
		}
		if len(roles) == 0 {
			switch {
			case i >= 1 && strings.HasPrefix(u[i-1], g.prefix):
				roles = []string{roleTo}
			case i <= n-2 && strings.HasPrefix(u[i+1], g.prefix):
				roles = []string{roleFrom}
			}
		}
		if len(roles) == 0 && len(g.inPhrases) > 0 && pre.AnyPhraseIn(g.inPhrases) {
			roles = []string{roleIn}
		}

		intent := wpIntent(u.Window(lastPos, i))
		switch {
		case len(roles) == 1:
			act.Append(da.NewItem(intent, roles[0]+"_"+g.suffix, name))
		case containsRole(roles, roleFrom) && containsRole(roles, roleTo):
			act.Append(da.NewItemConf(intent, roleFrom+"_"+g.suffix, name, 0.501))
			act.Append(da.NewItemConf(intent, roleTo+"_"+g.suffix, name, 0.499))
		default:
			act.Append(da.NewItem(intent, g.suffix, name))
		}
		lastPos = i + 1
	}
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
