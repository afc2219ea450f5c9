package extractor

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"docverify/internal/domain"
)

// DisplayDateLayout is the format every extracted date is stored in (MM/DD/YYYY).
const DisplayDateLayout = "01/02/2006"

// dateLayouts are tried in order; month-first wins when a date is ambiguous.
var dateLayouts = []string{
	"1/2/2006",
	"2/1/2006",
	"2006-1-2",
	"1-2-2006",
	"2-1-2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006/1/2",
	"1/2/06",
	"2/1/06",
	"1-2-06",
	"2-1-06",
}

// StandardizeDate rewrites a date into MM/DD/YYYY. Values that match no
// known layout are returned trimmed but otherwise unchanged; empty markers
// such as "n/a" become "".
func StandardizeDate(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "none", "null", "n/a":
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return value
}

// IsDateField reports whether a field holds a date.
func IsDateField(name string) bool {
	return strings.Contains(name, "date") || strings.Contains(name, "expires")
}

// NormalizeName capitalizes each word of a name. Particles such as "van"
// or "de" stay lowercase and apostrophe names become O'Brien.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		lower := strings.ToLower(w)
		switch {
		case compoundIndicators[lower]:
			words[i] = lower
		case strings.Contains(w, "'"):
			parts := strings.Split(w, "'")
			for j, p := range parts {
				parts[j] = capitalize(p)
			}
			words[i] = strings.Join(parts, "'")
		default:
			words[i] = capitalize(w)
		}
	}
	return strings.Join(words, " ")
}

// NormalizeCountry lowercases a country, drops punctuation and joins words with underscores.
func NormalizeCountry(country string) string {
	country = strings.ToLower(strings.TrimSpace(country))
	country = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, country)
	return strings.ReplaceAll(country, " ", "_")
}

// NormalizeFields standardizes raw extractor output for a document type:
// dates, names and the country are normalized, missing name parts are
// derived from each other and every schema field is present.
func NormalizeFields(schema Schema, docType domain.DocumentType, raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	rawCountry := raw["country"]

	for name, value := range raw {
		switch {
		case value == "":
			out[name] = ""
		case IsDateField(name):
			out[name] = StandardizeDate(value)
		case name == "full_name" || name == "first_name" || name == "last_name":
			out[name] = NormalizeName(value)
		case name == "country":
			out[name] = NormalizeCountry(value)
		default:
			out[name] = strings.TrimSpace(value)
		}
	}

	if out["full_name"] != "" && (out["first_name"] == "" || out["last_name"] == "") {
		first, last := GuessNameOrder(out["full_name"], rawCountry)
		if out["first_name"] == "" {
			out["first_name"] = first
		}
		if out["last_name"] == "" {
			out["last_name"] = last
		}
	}
	if out["full_name"] == "" && (out["first_name"] != "" || out["last_name"] != "") {
		out["full_name"] = strings.TrimSpace(out["first_name"] + " " + out["last_name"])
	}

	for _, f := range schema.Fields(docType) {
		if _, ok := out[f.Name]; !ok {
			out[f.Name] = ""
		}
	}
	return out
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
