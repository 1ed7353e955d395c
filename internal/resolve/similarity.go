package resolve

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/visadata/internal/textnorm"
)

// tokenWeight scales the token-based ratios so that only identical folded
// strings can reach 100.
const tokenWeight = 0.95

// Score returns the similarity of a and b in [0,100].
//
// Both inputs are folded first. The score is the best of the plain edit ratio
// and the token-sort and token-set ratios (each scaled by 0.95). It is
// symmetric, deterministic and 100 exactly when the folded forms are equal.
func Score(a, b string) int {
	return scoreFolded(textnorm.Fold(a), textnorm.Fold(b))
}

func scoreFolded(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	best := ratio(a, b)
	if s := scaled(tokenSortRatio(a, b)); s > best {
		best = s
	}
	if s := scaled(tokenSetRatio(a, b)); s > best {
		best = s
	}
	return best
}

// ratio is the normalized Levenshtein similarity over runes.
func ratio(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	d := levenshtein.ComputeDistance(a, b)
	r := int(math.Round(100 * (1 - float64(d)/float64(longest))))
	if r >= 100 {
		// distinct strings never round up to a perfect match
		r = 99
	}
	return r
}

func scaled(r int) int {
	return int(math.Round(tokenWeight * float64(r)))
}

func tokenSortRatio(a, b string) int {
	return ratio(sortedJoin(textnorm.Tokens(a)), sortedJoin(textnorm.Tokens(b)))
}

// tokenSetRatio compares the shared tokens against each side's full token set,
// so "korea" scores high against "korea republic of".
func tokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var inter, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter = append(inter, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	sect := sortedJoin(inter)
	combinedA := strings.TrimSpace(sect + " " + sortedJoin(onlyA))
	combinedB := strings.TrimSpace(sect + " " + sortedJoin(onlyB))

	best := ratio(sect, combinedA)
	if r := ratio(sect, combinedB); r > best {
		best = r
	}
	if r := ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

func tokenSet(folded string) map[string]struct{} {
	toks := textnorm.Tokens(folded)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

func sortedJoin(toks []string) string {
	if len(toks) == 0 {
		return ""
	}
	cp := make([]string, len(toks))
	copy(cp, toks)
	sort.Strings(cp)
	return strings.Join(cp, " ")
}
