package recommend

import (
	"errors"

	"wardrobe-stylist/utils"
)

// ErrEmptyVocabulary is returned when neither the candidates nor the query carry a single tag
var ErrEmptyVocabulary = errors.New("empty tag vocabulary")

// TagVector counts vocabulary tokens in one tag-set
type TagVector []float64

// Vocabulary maps each distinct token to a vector coordinate
type Vocabulary struct {
	index  map[string]int
	tokens []string
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

func (v *Vocabulary) add(token string) {
	if _, exists := v.index[token]; exists {
		return
	}
	v.index[token] = len(v.tokens)
	v.tokens = append(v.tokens, token)
}

// Size returns the number of distinct tokens
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Index returns the coordinate of a token
func (v *Vocabulary) Index(token string) (int, bool) {
	i, ok := v.index[utils.NormalizeTag(token)]
	return i, ok
}

// Tokens returns the tokens in coordinate order
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

// Transform counts the tokens of tags that appear in the vocabulary
func (v *Vocabulary) Transform(tags []string) TagVector {
	vector := make(TagVector, len(v.tokens))
	for _, t := range tags {
		if idx, ok := v.index[utils.NormalizeTag(t)]; ok {
			vector[idx]++
		}
	}
	return vector
}

// Vectorize builds one vocabulary over the candidates and the query and
// returns a vector per candidate plus the query vector, all the same length.
// Tokens are numbered in first-seen order: candidates in order, then the query.
func Vectorize(candidates [][]string, query []string) (*Vocabulary, []TagVector, TagVector, error) {
	vocab := newVocabulary()
	for _, tags := range candidates {
		for _, t := range tags {
			if token := utils.NormalizeTag(t); token != "" {
				vocab.add(token)
			}
		}
	}
	for _, t := range query {
		if token := utils.NormalizeTag(t); token != "" {
			vocab.add(token)
		}
	}

	if vocab.Size() == 0 {
		return nil, nil, nil, ErrEmptyVocabulary
	}

	vectors := make([]TagVector, len(candidates))
	for i, tags := range candidates {
		vectors[i] = vocab.Transform(tags)
	}
	return vocab, vectors, vocab.Transform(query), nil
}
