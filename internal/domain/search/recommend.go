package search

import "sort"

// Project is one catalog entry eligible for similarity search.
type Project struct {
	WorkspaceID int64
	Subject     string
	Stack       []string
}

// Recommender ranks catalog projects for a query. A fresh vectorizer fit
// happens per query over the stack-filtered subset, mirroring the upstream
// behavior; the catalog snapshot itself is never mutated.
type Recommender struct {
	projects    []Project
	maxFeatures int
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*Recommender)

// WithVectorizerMaxFeatures caps the per-query vocabulary size.
func WithVectorizerMaxFeatures(n int) RecommenderOption {
	return func(r *Recommender) {
		if n > 0 {
			r.maxFeatures = n
		}
	}
}

// NewRecommender creates a recommender over a project snapshot.
func NewRecommender(projects []Project, opts ...RecommenderOption) *Recommender {
	r := &Recommender{
		projects:    projects,
		maxFeatures: defaultMaxFeatures,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Similar returns the workspace ids of the topK projects most similar to
// the query idea, restricted to projects sharing at least one stack entry.
// Fewer than topK candidates yields a shorter list; no candidates yields an
// empty one.
func (r *Recommender) Similar(idea string, stack []string, topK int) []int64 {
	if topK <= 0 {
		return []int64{}
	}

	want := make(map[string]struct{}, len(stack))
	for _, s := range stack {
		want[s] = struct{}{}
	}
	candidates := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		for _, s := range p.Stack {
			if _, ok := want[s]; ok {
				candidates = append(candidates, p)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return []int64{}
	}

	docs := make([]string, len(candidates))
	for i, p := range candidates {
		docs[i] = PreprocessText(p.Subject)
	}
	vectorizer := NewVectorizer(WithMaxFeatures(r.maxFeatures))
	matrix := vectorizer.FitTransform(docs)
	query := vectorizer.Transform(PreprocessText(idea))

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(candidates))
	for i := range candidates {
		scores[i] = scored{index: i, score: CosineSimilarity(query, matrix[i])}
	}
	// Stable keeps catalog order among equal scores, making results
	// deterministic.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if topK > len(scores) {
		topK = len(scores)
	}
	ids := make([]int64, 0, topK)
	for _, s := range scores[:topK] {
		ids = append(ids, candidates[s.index].WorkspaceID)
	}
	return ids
}
