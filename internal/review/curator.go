package review

import (
	"sort"
	"strings"
	"unicode"

	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// denylist holds the moderation tokens. Matching is exact-token and
// case-insensitive: a denylisted root embedded inside a longer word does not
// trigger removal.
var denylist = map[string]struct{}{
	"damn":     {},
	"hell":     {},
	"crap":     {},
	"ass":      {},
	"bastard":  {},
	"bitch":    {},
	"piss":     {},
	"shit":     {},
	"fuck":     {},
	"racist":   {},
	"sexist":   {},
	"nazi":     {},
	"slur":     {},
	"kill":     {},
	"violence": {},
}

// FilterInappropriate drops any review text containing a denylisted token.
// Side-effect-free: the input slice is never mutated.
func FilterInappropriate(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if !containsDenylisted(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsDenylisted(text string) bool {
	for _, tok := range tokenize(text) {
		if _, bad := denylist[tok]; bad {
			return true
		}
	}
	return false
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// so punctuation never glues a token to its neighbors.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Prioritize reorders reviews negative-first: ratings <= 3 before ratings
// >= 4, ascending rating inside each group, original order preserved among
// equal ratings. Length-preserving; downstream takes a prefix.
func Prioritize(reviews []models.Review) []models.Review {
	out := make([]models.Review, len(reviews))
	copy(out, reviews)

	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := group(out[i].Rating), group(out[j].Rating)
		if gi != gj {
			return gi < gj
		}
		return out[i].Rating < out[j].Rating
	})
	return out
}

func group(rating int) int {
	if rating <= 3 {
		return 0
	}
	return 1
}

// Curate filters then prioritizes and returns at most max reviews. Lower
// ratings carry more narratively strange material, so the prefix always tries
// negative content first and falls back to positive.
func Curate(reviews []models.Review, max int) []models.Review {
	if max < 5 {
		max = 5
	}
	if max > 10 {
		max = 10
	}

	kept := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if !containsDenylisted(r.Text) {
			kept = append(kept, r)
		}
	}

	kept = Prioritize(kept)
	if len(kept) > max {
		kept = kept[:max]
	}
	return kept
}
