package extractor

import "strings"

// NameHint tells the name splitter which order the name is written in.
type NameHint int

const (
	// NameHintNone applies the given-name-first default with surname detection.
	NameHintNone NameHint = iota
	// NameHintFamilyFirst treats the first word as the family name.
	NameHintFamilyFirst
)

var namePrefixes = set(
	"mr", "mrs", "ms", "miss", "dr", "prof", "sir", "dame", "rev", "fr",
	"mr.", "mrs.", "ms.", "dr.", "prof.",
)

var nameSuffixes = set(
	"jr", "sr", "ii", "iii", "iv", "v", "phd", "md", "esq", "dds",
	"jr.", "sr.", "ph.d.", "m.d.", "esq.", "d.d.s.",
)

var compoundIndicators = set(
	"de", "da", "di", "del", "della", "van", "von", "der", "den", "la", "le",
	"mac", "mc", "o", "o'", "san", "santa", "st", "st.",
)

// familyFirstSurnames are common Chinese, Korean and Japanese family names.
var familyFirstSurnames = set(
	"wang", "li", "zhang", "liu", "chen", "yang", "huang", "zhao", "wu", "zhou",
	"xu", "sun", "ma", "zhu", "hu", "lin", "guo", "he", "luo", "gao",
	"kim", "lee", "park", "choi", "jung", "kang", "cho", "yoon", "jang", "lim",
	"sato", "suzuki", "takahashi", "tanaka", "watanabe", "ito", "yamamoto",
	"nakamura", "kobayashi", "kato", "yoshida", "yamada", "sasaki",
)

var familyFirstCountries = set(
	"china", "cn", "japan", "jp", "korea", "kr", "south korea", "south_korea",
	"vietnam", "vn", "taiwan", "tw", "singapore", "sg",
)

// GuessNameOrder splits a full name using the issuing country as a hint.
func GuessNameOrder(fullName, country string) (first, last string) {
	hint := NameHintNone
	if familyFirstCountries[strings.ToLower(strings.TrimSpace(country))] {
		hint = NameHintFamilyFirst
	}
	return SplitName(fullName, hint)
}

// SplitName splits a full name into first and last name.
//
// "Last, First Middle" yields ("First", "Last"). Otherwise a single word is
// a first name, titles and suffixes are dropped from longer names, a
// particle such as "van" starts a compound surname, family-first names put
// the surname first, and by default the last word is the surname.
func SplitName(fullName string, hint NameHint) (first, last string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}

	if before, after, ok := strings.Cut(fullName, ","); ok {
		last = strings.TrimSpace(before)
		given := strings.Fields(after)
		if len(given) > 0 {
			first = given[0]
		}
		return first, last
	}

	words := strings.Fields(fullName)
	switch len(words) {
	case 1:
		return words[0], ""
	case 2:
		if hint == NameHintFamilyFirst || familyFirstSurnames[strings.ToLower(words[0])] {
			return words[1], words[0]
		}
		return words[0], words[1]
	}

	core := words
	if namePrefixes[strings.ToLower(core[0])] {
		core = core[1:]
	}
	if nameSuffixes[strings.ToLower(core[len(core)-1])] {
		core = core[:len(core)-1]
	}
	if len(core) <= 1 {
		if len(core) == 0 {
			return "", ""
		}
		return core[0], ""
	}

	for i, w := range core[:len(core)-1] {
		if i > 0 && compoundIndicators[strings.ToLower(w)] {
			return strings.Join(core[:i], " "), strings.Join(core[i:], " ")
		}
	}

	if hint == NameHintFamilyFirst || familyFirstSurnames[strings.ToLower(core[0])] {
		return strings.Join(core[1:], " "), core[0]
	}
	return strings.Join(core[:len(core)-1], " "), core[len(core)-1]
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
