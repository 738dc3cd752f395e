package ingest

import (
	"iter"
	"strings"
	"unicode"

	"github.com/cognicore/drift/pkg/drift/review"
)

// Tokenizer splits review text into lowercase word tokens. Letter and digit
// runs are tokens; punctuation and whitespace are delimiters and are
// dropped. The tokenizer performs no filtering: single-occurrence words,
// stopwords and one-letter tokens all pass through, because downstream
// statistics must account for every token (stopword removal is a
// presentation concern, not an aggregation concern).
type Tokenizer struct{}

// NewTokenizer creates a tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Words splits text into normalized word tokens.
func (t *Tokenizer) Words(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return words
}

// Tokenize emits one Token per word in a record's combined title and body,
// copying rating, recommendation and year from the record unchanged. Title
// and body are joined with a single space; a missing side is treated as the
// empty string. A record whose combined text yields no words contributes
// nothing.
func (t *Tokenizer) Tokenize(r review.Record) []review.Token {
	words := t.Words(r.Title + " " + r.Text)
	if len(words) == 0 {
		return nil
	}
	tokens := make([]review.Token, len(words))
	for i, w := range words {
		tokens[i] = review.Token{
			Word:        w,
			Rating:      r.Rating,
			Recommended: r.Recommended,
			Year:        r.Year,
		}
	}
	return tokens
}

// Stream returns a lazy, restartable token sequence over the given records.
// Each ranging of the sequence re-tokenizes from the start, so multiple
// consumers (global and yearly aggregation) can each take a full pass.
func (t *Tokenizer) Stream(records []review.Record) iter.Seq[review.Token] {
	return func(yield func(review.Token) bool) {
		for _, r := range records {
			for _, tok := range t.Tokenize(r) {
				if !yield(tok) {
					return
				}
			}
		}
	}
}
