// Package recommend turns free-text gift queries into structured analysis
// and knowledge-base backed recommendations.
package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// MaxRecommendations caps the number of listings returned per query.
const MaxRecommendations = 5

// MaxInterests caps the number of extracted interest terms.
const MaxInterests = 5

// fuzzyThreshold is the minimum similarity ratio for a fuzzy knowledge-base
// match.
const fuzzyThreshold = 0.8

// Result is the structured outcome of analyzing one query.
type Result struct {
	Age              *int
	Relationship     string
	Interests        []string
	MatchedInterests []string
	Recommendations  []models.GiftListing
}

// Analysis converts the result into its wire representation.
func (r *Result) Analysis() *models.QueryAnalysis {
	return &models.QueryAnalysis{
		Age:              r.Age,
		Relationship:     r.Relationship,
		Interests:        r.Interests,
		MatchedInterests: r.MatchedInterests,
	}
}

var ageRe = regexp.MustCompile(`(\d{1,2})(?:-year-old|\s+years?\s+old|\s+yo\b)`)

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

var relationships = map[string]struct{}{
	"niece": {}, "nephew": {}, "son": {}, "daughter": {},
	"wife": {}, "husband": {}, "mom": {}, "dad": {},
	"friend": {}, "best friend": {},
}

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "because": {}, "been": {},
	"before": {}, "being": {}, "between": {}, "both": {}, "could": {},
	"does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"from": {}, "further": {}, "gift": {}, "gifts": {}, "have": {},
	"having": {}, "into": {}, "just": {}, "loves": {}, "more": {},
	"most": {}, "other": {}, "over": {}, "present": {}, "same": {},
	"should": {}, "some": {}, "something": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"under": {}, "until": {}, "very": {}, "want": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "with": {},
	"would": {}, "your": {}, "year": {}, "years": {},
}

// Engine analyzes queries against its knowledge base.
type Engine struct {
	knowledge map[string][]models.GiftListing
}

// NewEngine returns an engine over the built-in knowledge base.
func NewEngine() *Engine {
	return &Engine{knowledge: defaultKnowledgeBase()}
}

// NewEngineWithKnowledge returns an engine over a caller-supplied base.
func NewEngineWithKnowledge(kb map[string][]models.GiftListing) *Engine {
	return &Engine{knowledge: kb}
}

// Interests returns the knowledge-base interest terms in sorted order.
func (e *Engine) Interests() []string {
	keys := make([]string, 0, len(e.knowledge))
	for k := range e.knowledge {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Process extracts age, relationship, and interest terms from the query and
// matches the interests against the knowledge base. Empty queries yield an
// empty result, never an error.
func (e *Engine) Process(query string) *Result {
	res := &Result{
		Interests:        []string{},
		MatchedInterests: []string{},
		Recommendations:  []models.GiftListing{},
	}
	lowered := strings.ToLower(strings.TrimSpace(query))
	if lowered == "" {
		return res
	}

	if m := ageRe.FindStringSubmatch(lowered); m != nil {
		age := 0
		for _, d := range m[1] {
			age = age*10 + int(d-'0')
		}
		res.Age = &age
	}

	res.Relationship = extractRelationship(lowered)

	tokens := wordRe.FindAllString(lowered, -1)
	seen := map[string]struct{}{}
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		res.Interests = append(res.Interests, tok)
	}
	if len(res.Interests) > MaxInterests {
		res.Interests = res.Interests[:MaxInterests]
	}

	for _, interest := range res.Interests {
		if matched, ok := e.match(interest); ok {
			res.MatchedInterests = append(res.MatchedInterests, matched)
		}
	}

	for _, interest := range res.MatchedInterests {
		res.Recommendations = append(res.Recommendations, e.knowledge[interest]...)
	}
	if len(res.Recommendations) > MaxRecommendations {
		res.Recommendations = res.Recommendations[:MaxRecommendations]
	}
	return res
}

// match resolves an interest term to a knowledge-base key, exactly or by
// fuzzy similarity.
func (e *Engine) match(interest string) (string, bool) {
	if _, ok := e.knowledge[interest]; ok {
		return interest, true
	}
	keys := make([]string, 0, len(e.knowledge))
	for k := range e.knowledge {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if Similarity(interest, key) > fuzzyThreshold {
			return key, true
		}
	}
	return "", false
}

func extractRelationship(lowered string) string {
	// Multi-word relationships cannot be found by token scan.
	if strings.Contains(lowered, "best friend") {
		return "best friend"
	}
	for _, tok := range wordRe.FindAllString(lowered, -1) {
		if _, ok := relationships[tok]; ok {
			return tok
		}
	}
	return ""
}

// Similarity is the Ratcliff/Obershelp ratio of two strings: twice the
// number of matching characters over the total length.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(matchingBlocks(a, b)) / float64(len(a)+len(b))
}

// matchingBlocks counts matched characters by recursively taking the longest
// common substring and matching the pieces on either side.
func matchingBlocks(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}
