// Package search ranks catalog projects against a query text using TF-IDF
// weighted cosine similarity, with a technology-stack overlap prefilter.
package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vectorizer limits matching sklearn's TfidfVectorizer defaults used by the
// upstream search: unigrams and bigrams, a max-features cap, and document
// frequency bounds that drop boilerplate terms.
const (
	defaultMaxFeatures = 1000
	defaultNgramMax    = 2
	defaultMinDF       = 1
	defaultMaxDFRatio  = 0.95
)

var (
	htmlTagRE    = regexp.MustCompile(`<[^>]*>`)
	nonWordRE    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// PreprocessText strips HTML tags and punctuation and collapses whitespace,
// keeping letters (any script) and digits.
func PreprocessText(text string) string {
	text = htmlTagRE.ReplaceAllString(text, "")
	text = nonWordRE.ReplaceAllString(text, " ")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Vectorizer builds TF-IDF document vectors over a corpus vocabulary.
type Vectorizer struct {
	maxFeatures int
	ngramMax    int
	minDF       int
	maxDFRatio  float64

	vocab map[string]int
	idf   []float64
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithMaxFeatures caps the vocabulary size, keeping the most frequent terms.
func WithMaxFeatures(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// NewVectorizer creates a vectorizer with sklearn-compatible defaults.
func NewVectorizer(opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: defaultMaxFeatures,
		ngramMax:    defaultNgramMax,
		minDF:       defaultMinDF,
		maxDFRatio:  defaultMaxDFRatio,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// tokenize splits a preprocessed document into 1..ngramMax grams.
func (v *Vectorizer) tokenize(doc string) []string {
	words := strings.Fields(strings.ToLower(doc))
	terms := make([]string, 0, len(words)*v.ngramMax)
	for n := 1; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform learns the vocabulary and idf weights from docs and returns
// one l2-normalized TF-IDF vector per document.
func (v *Vectorizer) FitTransform(docs []string) [][]float64 {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	tf := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = v.tokenize(doc)
		seen := make(map[string]struct{})
		for _, term := range tokenized[i] {
			tf[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	maxDF := int(v.maxDFRatio * float64(len(docs)))
	if maxDF < v.minDF {
		maxDF = v.minDF
	}
	candidates := make([]string, 0, len(df))
	for term, count := range df {
		if count >= v.minDF && count <= maxDF {
			candidates = append(candidates, term)
		}
	}
	// Most frequent terms first; lexical order breaks frequency ties so
	// the cap is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if tf[candidates[i]] != tf[candidates[j]] {
			return tf[candidates[i]] > tf[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.maxFeatures {
		candidates = candidates[:v.maxFeatures]
	}
	sort.Strings(candidates)

	v.vocab = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	for i, term := range candidates {
		v.vocab[term] = i
		// Smoothed idf, as sklearn computes it.
		v.idf[i] = math.Log(float64(1+len(docs))/float64(1+df[term])) + 1
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vectors[i] = v.vectorize(tokenized[i])
	}
	return vectors
}

// Transform vectorizes a query against the fitted vocabulary. It must be
// called after FitTransform.
func (v *Vectorizer) Transform(doc string) []float64 {
	return v.vectorize(v.tokenize(doc))
}

func (v *Vectorizer) vectorize(terms []string) []float64 {
	vec := make([]float64, len(v.idf))
	for _, term := range terms {
		if idx, ok := v.vocab[term]; ok {
			vec[idx] += v.idf[idx]
		}
	}
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// CosineSimilarity of two equal-length vectors. Normalized inputs make this
// a plain dot product, but the zero-vector guard keeps it safe for queries
// with no vocabulary overlap.
func CosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
