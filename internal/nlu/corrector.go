package nlu

import "dialcore/internal/tokens"

// Correction reverts one known false abstraction.
type Correction struct {
	From []string
	To   []string
}

// DefaultCorrections is applied in order; each entry rewrites only its first
// occurrence.
var DefaultCorrections = []Correction{
	{From: []string{"STOP=Metra"}, To: []string{"metra"}},
	{From: []string{"STOP=Nádraží"}, To: []string{"nádraží"}},
	{From: []string{"STOP=SME"}, To: []string{"sme"}},
	{From: []string{"STOP=Bílá Hora", "STOP=Železniční stanice"}, To: []string{"STOP=Bílá Hora", "železniční stanice"}},
	{From: []string{"TIME=now", "bych", "chtěl"}, To: []string{"teď", "bych", "chtěl"}},
	{From: []string{"STOP=Řím", "se"}, To: []string{"řím", "se"}},
	{From: []string{"STOP=Lužin", "STOP=Na Chmelnici"}, To: []string{"STOP=Lužin", "na", "STOP=Chmelnici"}},
	{From: []string{"STOP=Konečná", "zastávka"}, To: []string{"konečná", "zastávka"}},
	{From: []string{"STOP=Konečná", "STOP=Anděl"}, To: []string{"konečná", "STOP=Anděl"}},
	{From: []string{"STOP=Konečná stanice", "STOP=Ládví"}, To: []string{"konečná", "stanice", "STOP=Ládví"}},
	{From: []string{"STOP=Výstupní", "stanice", "je"}, To: []string{"výstupní", "stanice", "je"}},
	{From: []string{"STOP=Nová", "jiné"}, To: []string{"nové", "jiné"}},
	{From: []string{"STOP=Nová", "spojení"}, To: []string{"nové", "spojení"}},
	{From: []string{"STOP=Nová", "zadání"}, To: []string{"nové", "zadání"}},
	{From: []string{"STOP=Nová", "TASK=find_connection"}, To: []string{"nové", "TASK=find_connection"}},
	{From: []string{"z", "CITY=Liberk"}, To: []string{"z", "CITY=Liberec"}},
	{From: []string{"do", "CITY=Liberk"}, To: []string{"do", "CITY=Liberec"}},
	{From: []string{"pauza", "hrozně", "STOP=Dlouhá"}, To: []string{"pauza", "hrozně", "dlouhá"}},
	{From: []string{"v", "STOP=Praga"}, To: []string{"v", "CITY=Praha"}},
	{From: []string{"na", "STOP=Praga"}, To: []string{"na", "CITY=Praha"}},
	{From: []string{"po", "STOP=Praga", "ale"}, To: []string{"po", "CITY=Praha"}},
	{From: []string{"jsem", "v", "STOP=Metra"}, To: []string{"jsem", "v", "VEHICLE=metro"}},
}

// Correct applies the table to a copy of u.
func Correct(u tokens.List, table []Correction) tokens.List {
	out := u.Clone()
	for _, c := range table {
		out = out.ReplaceFirst(c.From, c.To)
	}
	return out
}
