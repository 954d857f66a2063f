package cldb

import "strconv"

// Category labels used by the public transport lexicon.
const (
	LabelCity      = "city"
	LabelStop      = "stop"
	LabelTrainName = "train_name"
	LabelVehicle   = "vehicle"
	LabelTask      = "task"
	LabelDateRel   = "date_rel"
	LabelAMPM      = "ampm"
	LabelTime      = "time"
	LabelNumber    = "number"
)

var builtinSource = Source{
	LabelCity: {
		"Praha":     {"praha", "prahy", "praze", "prahu", "prahou"},
		"Brno":      {"brno", "brna", "brně", "brnu", "brnem"},
		"Liberec":   {"liberec", "liberce", "liberci", "libercem"},
		"Ostrava":   {"ostrava", "ostravy", "ostravě", "ostravu"},
		"Plzeň":     {"plzeň", "plzně", "plzni"},
		"Olomouc":   {"olomouc", "olomouce", "olomouci"},
		"Pardubice": {"pardubice", "pardubic", "pardubicích"},
		"Beroun":    {"beroun", "berouna", "berouně"},
		"Kladno":    {"kladno", "kladna", "kladně"},
	},
	LabelStop: {
		"Anděl":                 {"anděl", "anděla", "andělu"},
		"Bílá Hora":             {"bílá hora", "bílé hory", "bílou horu", "bílé hoře"},
		"Malostranské náměstí":  {"malostranské náměstí", "malostranského náměstí", "malostranském náměstí", "malostranská"},
		"Motol":                 {"motol", "motola", "motolu"},
		"Ládví":                 {"ládví"},
		"Florenc":               {"florenc", "florence", "florenci"},
		"Náměstí Míru":          {"náměstí míru"},
		"Hlavní nádraží":        {"hlavní nádraží", "hlavního nádraží", "hlavním nádraží"},
		"Nádraží":               {"nádraží"},
		"Na Chmelnici":          {"na chmelnici"},
		"Chmelnici":             {"chmelnici"},
		"Lužin":                 {"lužin"},
		"Konečná":               {"konečná"},
		"Konečná stanice":       {"konečná stanice"},
		"Nová":                  {"nová", "nové"},
		"Dlouhá":                {"dlouhá"},
		"Metra":                 {"metra"},
		"Železniční stanice":    {"železniční stanice"},
		"Řím":                   {"řím"},
		"Výstupní":              {"výstupní"},
		"Praga":                 {"praga"},
		"Beroun":                {"beroun", "berouna", "berouně"},
		"Kladno":                {"kladno", "kladna", "kladně"},
		"Jizera":                {"jizera", "jizery", "jizeře"},
		"I. P. Pavlova":         {"i p pavlova", "ípé pavlova", "pavlova"},
		"Karlovo náměstí":       {"karlovo náměstí", "karlova náměstí", "karlově náměstí"},
		"Nádraží Holešovice":    {"nádraží holešovice", "nádraží holešovic"},
		"Václavské náměstí":     {"václavské náměstí", "václavského náměstí", "václavák", "václaváku"},
		"Staroměstská":          {"staroměstská", "staroměstské", "staroměstskou"},
		"Národní třída":         {"národní třída", "národní třídy", "národní třídu"},
		"Kobylisy":              {"kobylisy", "kobylis"},
		"Háje":                  {"háje", "hájí"},
		"Zličín":                {"zličín", "zličína"},
		"Černý Most":            {"černý most", "černého mostu", "černém mostě"},
		"Letiště Václava Havla": {"letiště", "letiště václava havla"},
	},
	LabelTrainName: {
		"Pendolino": {"pendolino", "pendolinem", "pendolina"},
		"Jizera":    {"jizera", "jizery", "jizeře"},
		"Ostravan":  {"ostravan", "ostravanem"},
		"Slovan":    {"slovan", "slovanem"},
	},
	LabelVehicle: {
		"bus":        {"autobus", "autobusem", "autobusu", "autobusy", "bus", "busem"},
		"tram":       {"tramvaj", "tramvají", "tramvaje", "tramvajka", "tramvajkou", "šalina", "šalinou"},
		"metro":      {"metro", "metrem"},
		"train":      {"vlak", "vlakem", "vlaku"},
		"trolleybus": {"trolejbus", "trolejbusem"},
	},
	LabelTask: {
		"find_connection": {"spojení", "spoj"},
		"find_platform":   {"nástupiště"},
		"weather":         {"počasí"},
	},
	LabelDateRel: {
		"today":              {"dnes", "dneska", "dnešek"},
		"tomorrow":           {"zítra", "zejtra", "zítřek"},
		"day_after_tomorrow": {"pozítří"},
	},
	LabelAMPM: {
		"morning": {"ráno", "ránem"},
		"am":      {"dopoledne"},
		"pm":      {"odpoledne"},
		"evening": {"večer", "večera"},
		"night":   {"noc", "noci", "v noci"},
	},
	LabelTime: {
		"now": {"teď", "teďka", "nyní", "hned"},
	},
}

var (
	numberUnits = map[int][]string{
		0: {"nula"},
		1: {"jedna", "jeden", "jednu", "jedné"},
		2: {"dva", "dvě"},
		3: {"tři"},
		4: {"čtyři"},
		5: {"pět"},
		6: {"šest"},
		7: {"sedm"},
		8: {"osm"},
		9: {"devět"},
	}
	numberTeens = map[int][]string{
		10: {"deset"},
		11: {"jedenáct"},
		12: {"dvanáct"},
		13: {"třináct"},
		14: {"čtrnáct"},
		15: {"patnáct"},
		16: {"šestnáct"},
		17: {"sedmnáct"},
		18: {"osmnáct"},
		19: {"devatenáct"},
	}
	numberTens = map[int][]string{
		20: {"dvacet"},
		30: {"třicet"},
		40: {"čtyřicet"},
		50: {"padesát"},
	}
	// genitive ordinals as in "půl osmé"
	hourOrdinals = map[int][]string{
		1:  {"jedné"},
		2:  {"druhé"},
		3:  {"třetí"},
		4:  {"čtvrté"},
		5:  {"páté"},
		6:  {"šesté"},
		7:  {"sedmé"},
		8:  {"osmé"},
		9:  {"deváté"},
		10: {"desáté"},
		11: {"jedenácté"},
		12: {"dvanácté"},
	}
	fractions = map[string][]string{
		"0.25": {"čtvrt"},
		"0.5":  {"půl"},
		"0.75": {"tři čtvrtě", "třičtvrtě", "tři čtvrti"},
	}
)

// numberSource generates NUMBER forms: digits 0-59, Czech cardinals 0-59,
// hour ordinals and fractions. Integers render without a decimal point and
// fractions with one, which is how the rule engine tells them apart.
func numberSource() map[string][]string {
	out := make(map[string][]string)
	add := func(n int, forms ...string) {
		key := strconv.Itoa(n)
		out[key] = append(out[key], forms...)
	}
	for n := 0; n < 60; n++ {
		add(n, strconv.Itoa(n))
	}
	for n, forms := range numberUnits {
		add(n, forms...)
	}
	for n, forms := range numberTeens {
		add(n, forms...)
	}
	for tens, tensForms := range numberTens {
		add(tens, tensForms...)
		for unit := 1; unit <= 9; unit++ {
			for _, t := range tensForms {
				for _, u := range numberUnits[unit] {
					add(tens+unit, t+" "+u)
				}
			}
		}
	}
	for n, forms := range hourOrdinals {
		add(n, forms...)
	}
	for v, forms := range fractions {
		out[v] = append(out[v], forms...)
	}
	return out
}

// BuiltinSource returns a fresh copy of the bundled public transport lexicon.
func BuiltinSource() Source {
	out := make(Source, len(builtinSource)+1)
	for label, values := range builtinSource {
		out[label] = make(map[string][]string, len(values))
		for v, forms := range values {
			out[label][v] = append([]string(nil), forms...)
		}
	}
	out[LabelNumber] = numberSource()
	return out
}

// Builtin compiles the bundled lexicon.
func Builtin() *Database {
	return MustNew(BuiltinSource())
}
