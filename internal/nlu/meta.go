package nlu

import (
	"dialcore/internal/da"
	"dialcore/internal/tokens"
)

// metaRule emits dialogue acts from lexical cues on the normalized, non-abstracted
// utterance. Rules run in table order and never remove earlier output.
type metaRule struct {
	id    string
	apply func(u tokens.List) []da.Item
}

func bare(intent string) da.Item { return da.NewItem(intent, "", "") }

func inform(slot, value string) da.Item { return da.NewItem("inform", slot, value) }

func request(slot string) da.Item { return da.NewItem("request", slot, "") }

// when wraps a predicate that emits fixed items.
func when(pred func(u tokens.List) bool, items ...da.Item) func(tokens.List) []da.Item {
	return func(u tokens.List) []da.Item {
		if pred(u) {
			return items
		}
		return nil
	}
}

func anyAllWords(u tokens.List, sets ...string) bool {
	for _, s := range sets {
		if u.AllWordsIn(s) {
			return true
		}
	}
	return false
}

var metaRules = []metaRule{
	{id: "hello", apply: when(func(u tokens.List) bool {
		return u.AnyWordIn("ahoj áhoj nazdar zdar") || u.AllWordsIn("dobrý den")
	}, bare("hello"))},

	{id: "bye", apply: when(func(u tokens.List) bool {
		return u.AnyWordIn("nashledanou shledanou schledanou shle nashle sbohem bohem zbohem konec hledanou naschledanou shledaná") ||
			u.PhraseIn("dobrou noc") ||
			(!u.AnyWordIn("nechci") && u.PhraseIn("ukončit hovor"))
	}, bare("bye"))},

	{id: "bye_short", apply: when(func(u tokens.List) bool {
		return len(u) == 1 && u.AnyWordIn("čau čauky čaues")
	}, bare("bye"))},

	{id: "reqalts", apply: when(func(u tokens.List) bool {
		return !u.AnyWordIn("spojení zastávka stanice možnost varianta") && u.AnyWordIn("jiný jiná jiné jiného")
	}, bare("reqalts"))},

	{id: "restart_repeat", apply: restartOrRepeat},

	{id: "apology", apply: when(func(u tokens.List) bool {
		return (len(u) == 1 && u.AnyWordIn("pardon pardón promiňte promiň sorry")) ||
			u.AnyPhraseIn([]string{"omlouvám se", "je mi líto"})
	}, bare("apology"))},

	{id: "help", apply: when(func(u tokens.List) bool {
		if u.AnyWordIn("nechci děkuji") {
			return false
		}
		return u.AnyWordIn("nápověda nápovědu pomoc pomoct pomoci pomož pomohla pomohl pomůžete help nevím nevim nechápu") ||
			(u.AnyWordIn("co") && u.AnyWordIn("zeptat říct dělat"))
	}, bare("help"))},

	{id: "canthearyou", apply: when(func(u tokens.List) bool {
		return u.AnyWordIn("neslyšíme neslyším halo haló nefunguje cože") ||
			(!u.PhraseIn("ano slyšíme se") && u.PhraseIn("slyšíme se"))
	}, bare("canthearyou"))},

	{id: "notunderstood", apply: when(func(u tokens.List) bool {
		return anyAllWords(u, "nerozuměl jsem", "nerozuměla jsem", "taky nerozumím", "nerozumím vám") ||
			(len(u) == 1 && u.AnyWordIn("nerozumím"))
	}, bare("notunderstood"))},

	{id: "affirm", apply: when(func(u tokens.List) bool {
		return !u.AnyWordIn("nerozuměj nechci vzdávám čau možnost konec") && u.AnyWordIn("ano jo jasně jojo")
	}, bare("affirm"))},

	{id: "negate", apply: when(func(u tokens.List) bool {
		if u.AnyPhraseIn([]string{"ne z", "né do"}) {
			return false
		}
		return u.AnyWordIn("ne né nene nené néé") ||
			u.AnyPhraseIn([]string{"nechci to tak", "to nechci", "to nehledej", "no nebyli"}) ||
			(len(u) == 1 && u.AnyWordIn("nejedu nechci")) ||
			(len(u) == 2 && u.AllWordsIn("ano nechci")) ||
			u.AllWordsIn("to je špatně")
	}, bare("negate"))},

	{id: "thankyou", apply: when(func(u tokens.List) bool {
		return u.AnyWordIn("díky dikec děkuji dekuji děkuju děkují")
	}, bare("thankyou"))},

	{id: "ack", apply: when(func(u tokens.List) bool {
		if u.AnyWordIn("ano") {
			return false
		}
		return u.AnyWordIn("ok pořádku dobře správně stačí super fajn rozuměl rozuměla slyším") ||
			u.AnyPhraseIn([]string{
				"to je vše", "je to vše", "je to všechno", "to bylo všechno", "to bude všechno",
				"už s ničím", "už s ničim", "to jsem chtěl slyšet",
			}) ||
			(!u.AnyPhraseIn([]string{"dobrý den", "dobrý dén", "dobrý večer"}) && u.AnyWordIn("dobrý"))
	}, bare("ack"))},

	{id: "task_find_connection", apply: when(func(u tokens.List) bool {
		return u.AnyPhraseIn([]string{
			"chci jet", "chtěla jet", "bych jet", "bych jel", "bychom jet",
			"bych tam jet", "jak se dostanu", "se dostat",
		}) || u.AnyWordIn("trasa trasou trasy trasu trase")
	}, inform("task", "find_connection"))},

	{id: "task_weather", apply: when(func(u tokens.List) bool {
		return u.AnyPhraseIn([]string{"jak bude", "jak dnes bude", "jak je", "jak tam bude"})
	}, inform("task", "weather"))},

	{id: "task_find_platform", apply: when(func(u tokens.List) bool {
		return u.AnyWordIn("nástupiště kolej koleje")
	}, inform("task", "find_platform"))},

	{id: "request_from_stop", apply: when(func(u tokens.List) bool {
		return anyAllWords(u,
			"od to jede", "z jake jede", "z jaké jede", "z jaké zastávky", "jaká výchozí",
			"kde začátek", "odkud to jede", "odkud jede", "odkud pojede", "od kud pojede")
	}, request("from_stop"))},

	{id: "request_to_stop", apply: when(func(u tokens.List) bool {
		return anyAllWords(u,
			"kam to jede", "na jakou jede", "do jake jede", "do jaké jede", "do jaké zastávky",
			"co cíl", "jaká cílová", "kde konečná", "kde konečný", "kam jede", "kam pojede")
	}, request("to_stop"))},

	{id: "request_departure_time", apply: when(func(u tokens.List) bool {
		if u.AnyWordIn("za budu bude budem přijede přijedete přijedu dojedu dojede dorazí dorazím dorazíte") {
			return false
		}
		return anyAllWords(u, "kdy jede", "v kolik jede", "v kolik hodin", "kdy to pojede") ||
			(u.AnyWordIn("kdy kolik") && u.AnyWordIn("jede odjíždí odjede odjíždíš odjíždíte")) ||
			u.PhraseIn("časový údaj")
	}, request("departure_time"))},

	{id: "request_departure_time_rel", apply: when(func(u tokens.List) bool {
		if u.AnyWordIn("budu bude budem přijede přijedete přijedu dojedu dorazí dorazím dorazíte") {
			return false
		}
		return (u.AllWordsIn("za jak") && u.AnyWordIn("dlouho dlóho")) ||
			anyAllWords(u, "za kolik minut jede", "za kolik minut pojede") ||
			(u.AllWordsIn("za jak pojede") && u.AnyWordIn("dlouho dlóho"))
	}, request("departure_time_rel"))},

	{id: "request_arrival_time", apply: when(func(u tokens.List) bool {
		return (u.AllWordsIn("kdy tam") && u.AnyWordIn("budu bude budem")) ||
			(u.AllWordsIn("v kolik") && u.AnyWordIn("budu bude budem")) ||
			u.AllWordsIn("čas příjezdu") ||
			(u.AnyWordIn("kdy kolik") && u.AnyWordIn("příjezd přijede přijedete přijedu přijedem dojedu dorazí dojede dorazím dorazíte"))
	}, request("arrival_time"))},

	{id: "request_arrival_time_rel", apply: when(func(u tokens.List) bool {
		return u.AllWordsIn("za jak") && u.AnyWordIn("dlouho dlóho") &&
			u.AnyWordIn("budu bude budem přijedu přijede přijedem přijedete dojedu dorazí dorazím dorazíte") &&
			u.AnyPhraseIn([]string{"tam", "v cíli", "do cíle", "k cíli", "cílové zastávce", "cílové stanici"})
	}, request("arrival_time_rel"))},

	{id: "request_duration", apply: when(func(u tokens.List) bool {
		if u.AnyWordIn("za v přestup přestupy") {
			return false
		}
		return (u.AllWordsIn("jak") && u.AnyWordIn("dlouho dlóho") && u.AnyWordIn("jede pojede trvá trvat")) ||
			(u.AllWordsIn("kolik minut") && u.AnyWordIn("jede pojede trvá trvat"))
	}, request("duration"))},

	{id: "request_current_time", apply: when(func(u tokens.List) bool {
		return anyAllWords(u, "kolik je hodin", "kolik máme hodin", "kolik je teď", "kolik je teďka")
	}, request("current_time"))},

	{id: "transfers", apply: transfers},

	{id: "direct_connection", apply: when(func(u tokens.List) bool {
		return u.AnyPhraseIn([]string{
			"přímý spoj", "přímé spojení", "přímé spoje", "přímý spoje", "přímej spoj",
			"přímý spojení", "jet přímo", "pojedu přímo", "dostanu přímo", "dojedu přímo",
			"dostat přímo",
		})
	}, inform("num_transfers", "0"))},

	{id: "alternative", apply: alternative},

	{id: "alternative_next", apply: when(func(u tokens.List) bool {
		return (len(u) == 1 && u.AnyWordIn("další následující následují později")) ||
			u.EndingPhrasesIn([]string{"další", "co dál"})
	}, inform("alternative", "next"))},

	{id: "alternative_next_short", apply: when(func(u tokens.List) bool {
		return len(u) == 2 && (u.AllWordsIn("a další") || u.AllWordsIn("a později"))
	}, inform("alternative", "next"))},

	{id: "alternative_prev_short", apply: when(func(u tokens.List) bool {
		return len(u) == 1 && u.AnyWordIn("předchozí před")
	}, inform("alternative", "prev"))},

	{id: "ampm_daytime", apply: when(func(u tokens.List) bool {
		return u.AnyPhraseIn([]string{"jako v dne", "jako ve dne"})
	}, inform("ampm", "pm"))},

	{id: "dangling_waypoint", apply: danglingWaypoint},
}

func restartOrRepeat(u tokens.List) []da.Item {
	restart := (u.AnyWordIn("od začít začneme začněme začni začněte") && u.AnyWordIn("začátku znova znovu")) ||
		u.AnyWordIn("reset resetuj restart restartuj zrušit") ||
		(!u.AnyWordIn("ze") && u.AnyPhraseIn([]string{"nové spojení", "nový spojení", "nové zadání", "nový zadání", "nový spoj"})) ||
		u.AllWordsIn("tak jinak") ||
		u.AnyPhraseIn([]string{"tak znova", "zkusíme to ještě jednou"})
	if restart {
		return []da.Item{bare("restart")}
	}
	if !u.AnyWordIn("spojení zastávka stanice možnost spoj nabídnutý poslední nalezená opakuji") {
		if u.AnyWordIn("zopakovat opakovat znova znovu opakuj zopakuj zopakujte zvopakovat") || u.PhraseIn("ještě jednou") {
			return []da.Item{bare("repeat")}
		}
	} else if u.AnyWordIn("zopakuj zopakujte zopakovat opakovat") && u.PhraseIn("poslední větu") {
		return []da.Item{bare("repeat")}
	}
	return nil
}

func transfers(u tokens.List) []da.Item {
	if !u.AnyWordIn("přestupů přestupu přestupy stupňů přestup přestupku přestupky přestupků " +
		"přestupovat přestupuju přestupuji přestupování přestupama přestupem") {
		return nil
	}
	switch {
	case u.AnyWordIn("čas času dlouho trvá trvají trvat"):
		return []da.Item{request("time_transfers")}
	case u.AnyWordIn("kolik počet kolikrát jsou je"):
		return []da.Item{request("num_transfers")}
	case u.AnyWordIn("nechci bez žádný žádné žáden"):
		return []da.Item{inform("num_transfers", "0")}
	case u.AnyWordIn("jeden jedním jednou"):
		return []da.Item{inform("num_transfers", "1")}
	case u.AnyWordIn("dva dvěma dvěmi dvakrát"):
		return []da.Item{inform("num_transfers", "2")}
	case u.AnyWordIn("tři třema třemi třikrát"):
		return []da.Item{inform("num_transfers", "3")}
	case u.AnyWordIn("čtyři čtyřma čtyřmi čtyřikrát"):
		return []da.Item{inform("num_transfers", "4")}
	case u.AnyWordIn("libovolný libovolné libovolná") ||
		u.AnyPhraseIn([]string{"s přestupem", "s přestupy", "s přestupama"}):
		return []da.Item{inform("num_transfers", "dontcare")}
	}
	return nil
}

func alternative(u tokens.List) []da.Item {
	if !u.AnyWordIn("spoj spojení spoje možnost možnosti varianta alternativa cesta cestu cesty " +
		"zpoždění stažení nalezené nabídnuté") {
		return nil
	}
	var out []da.Item
	if !u.AnyWordIn("první jedna druhá druhý třetí čtvrtá čtvrtý") && u.AnyWordIn("libovolný") {
		out = append(out, inform("alternative", "dontcare"))
	}
	if !u.AnyWordIn("druhá druhý třetí čtvrtá čtvrtý") && !u.AllWordsIn("ještě jedna") && u.AnyWordIn("první jedna") {
		out = append(out, inform("alternative", "1"))
	}
	if !u.AnyWordIn("třetí čtvrtá čtvrtý další") && u.AnyWordIn("druhé druhá druhý druhou dva") {
		out = append(out, inform("alternative", "2"))
	}
	if u.AnyWordIn("třetí tři") {
		out = append(out, inform("alternative", "3"))
	}
	if u.AnyWordIn("čtvrté čtvrtá čtvrtý čtvrtou čtyři") {
		out = append(out, inform("alternative", "4"))
	}
	if u.AnyWordIn("páté pátou") {
		out = append(out, inform("alternative", "5"))
	}

	switch {
	case u.AnyWordIn("předchozí před"):
		if u.AnyPhraseIn([]string{"nechci vědět předchozí", "nechci předchozí"}) {
			out = append(out, da.NewItem("deny", "alternative", "prev"))
		} else {
			out = append(out, inform("alternative", "prev"))
		}
	case u.AnyWordIn("poslední znovu znova opakovat zopakovat zopakujte zopakování"):
		if u.PhraseIn("nechci poslední") {
			out = append(out, da.NewItem("deny", "alternative", "last"))
		} else {
			out = append(out, inform("alternative", "last"))
		}
	case u.AnyWordIn("další jiné jiná následující pozdější") ||
		u.AnyPhraseIn([]string{"ještě jedno", "ještě jednu", "ještě jedna", "ještě jednou", "ještě zeptat na jedno"}):
		out = append(out, inform("alternative", "next"))
	}
	return out
}

// danglingWaypoint handles utterances that end on a waypoint preposition; the
// value is left open as "*".
func danglingWaypoint(u tokens.List) []da.Item {
	switch {
	case u.EndingPhrasesIn([]string{"od", "z", "z nádraží"}):
		return []da.Item{inform("from", "*")}
	case u.EndingPhrasesIn([]string{"na", "do", "dó"}):
		return []da.Item{inform("to", "*")}
	case u.EndingPhrasesIn([]string{"z zastávky", "z stanice", "výchozí stanice je", "výchozí zastávku"}):
		return []da.Item{inform("from_stop", "*")}
	case u.EndingPhrasesIn([]string{"na zastávku", "na zastávky", "do zastávky", "do zástavky", "do zastavky"}):
		return []da.Item{inform("to_stop", "*")}
	case u.EndingPhrasesIn([]string{"přes"}):
		return []da.Item{inform("via", "*")}
	}
	return nil
}

func parseMeta(u tokens.List, out *da.Act) {
	for _, r := range metaRules {
		for _, it := range r.apply(u) {
			out.Append(it)
		}
	}
}
