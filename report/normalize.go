package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that carry no combining mark and need an explicit replacement
var deburrLetters = strings.NewReplacer(
	"ß", "ss",
	"Æ", "Ae", "æ", "ae",
	"Œ", "Oe", "œ", "oe",
	"Ø", "O", "ø", "o",
	"Þ", "Th", "þ", "th",
	"Ð", "D", "ð", "d",
	"Đ", "D", "đ", "d",
	"Ħ", "H", "ħ", "h",
	"Ł", "L", "ł", "l",
	"Ŀ", "L", "ŀ", "l",
	"Ŋ", "N", "ŋ", "n",
	"Ĳ", "IJ", "ĳ", "ij",
	"ı", "i",
	"ſ", "s",
	"ŉ", "'n",
)

var apostrophes = strings.NewReplacer("'", "", "’", "")

// Deburr removes diacritics and folds Latin ligatures to plain letters.
func Deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return deburrLetters.Replace(out)
}

// SnakeCase splits s into words and joins them lowercased with underscores.
// Words break on any non-alphanumeric rune, on lower-to-upper transitions, on
// letter/digit transitions and before the last capital of an acronym that
// starts a capitalised word ("XMLHttp" -> xml_http). Apostrophes are dropped.
func SnakeCase(s string) string {
	w := words(apostrophes.Replace(s))
	for i := range w {
		w[i] = strings.ToLower(w[i])
	}
	return strings.Join(w, "_")
}

// NormalizeColumn turns a raw header such as "Région Totale" into region_totale.
func NormalizeColumn(name string) string {
	return SnakeCase(Deburr(name))
}

type runeClass uint8

const (
	classOther runeClass = iota
	classUpper
	classLower
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsUpper(r) || unicode.IsTitle(r):
		return classUpper
	case unicode.IsDigit(r):
		return classDigit
	case unicode.IsLetter(r):
		// lowercase and uncased scripts behave the same
		return classLower
	default:
		return classOther
	}
}

func words(s string) []string {
	rs := []rune(s)
	var (
		out  []string
		word []rune
		prev runeClass
	)
	flush := func() {
		if len(word) > 0 {
			out = append(out, string(word))
			word = word[:0]
		}
	}

	for i, r := range rs {
		cls := classify(r)
		if cls == classOther {
			flush()
			prev = classOther
			continue
		}

		if len(word) > 0 {
			switch {
			case prev == classLower && cls == classUpper:
				flush()
			case (prev == classDigit) != (cls == classDigit):
				flush()
			case prev == classUpper && cls == classUpper && i+1 < len(rs) && classify(rs[i+1]) == classLower:
				flush()
			}
		}

		word = append(word, r)
		prev = cls
	}
	flush()

	return out
}
