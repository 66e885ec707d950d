package fuzzy

import (
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

/*
 * The folding transformer mirrors the unexported one in
 * github.com/lithammer/fuzzysearch/fuzzy: diacritics are stripped and runes
 * are lower-cased before names are compared.
 */

var (
	normalizeTransformer transform.Transformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	transformer                                = transform.Chain(normalizeTransformer, unicodeFoldTransformer{})
)

// Closest returns the candidate nearest to name by Levenshtein distance over
// folded strings. It reports false when nothing is close enough to be a
// plausible typo: more than half of name would have to change.
func Closest(name string, candidates []string) (string, bool) {
	target := Fold(name)

	best, bestRank := "", -1
	for _, c := range candidates {
		rank := fuzzy.LevenshteinDistance(target, Fold(c))
		if bestRank < 0 || rank < bestRank {
			best, bestRank = c, rank
		}
	}

	if bestRank < 0 || bestRank > max(1, utf8.RuneCountInString(target)/2) {
		return "", false
	}
	return best, true
}

// Fold lower-cases s and strips its diacritics.
func Fold(s string) (transformed string) {
	var err error
	transformed, _, err = transform.String(transformer, s)
	if err != nil {
		transformed = s
	}

	return
}

type unicodeFoldTransformer struct{ transform.NopResetter }

func (unicodeFoldTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, r := range string(src) {
		if r == utf8.RuneError {
			// invalid byte, skip it
			nSrc++
		} else {
			nSrc += utf8.RuneLen(r)
		}
		r = unicode.ToLower(r)
		x := utf8.RuneLen(r)
		if x > len(dst[nDst:]) {
			err = transform.ErrShortDst
			break
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
	}
	return nDst, nSrc, err
}
