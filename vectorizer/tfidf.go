package vectorizer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/bbalet/stopwords"
	porterstemmer "github.com/reiver/go-porterstemmer"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vector"
)

// tokenPattern keeps runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TfidfOptions tunes text analysis. The zero value matches the usual
// defaults: lowercase, no stop words, no stemming.
type TfidfOptions struct {
	// StopWords is a language code ("en", "fr", ...) whose stop words are
	// dropped from the tokens. Empty keeps every word.
	StopWords string
	// Stem reduces tokens with the Porter stemmer.
	Stem bool
	// StripAccents removes combining marks after NFD normalization.
	StripAccents bool
	// MinDF drops terms seen in fewer documents. Values below 1 mean 1.
	MinDF int
}

// Tfidf weighs term counts by smoothed inverse document frequency and
// L2-normalizes every row. Its output is Sparse with float32 values.
type Tfidf struct {
	opts       TfidfOptions
	features   []string
	vocabulary map[string]int
	idf        []float64
}

// NewTfidf returns an unfitted vectorizer.
func NewTfidf(opts TfidfOptions) *Tfidf {
	return &Tfidf{opts: opts}
}

func (v *Tfidf) analyze(text string) []string {
	text = strings.ToLower(text)
	if v.opts.StripAccents {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if s, _, err := transform.String(t, text); err == nil {
			text = s
		}
	}
	tokens := tokenPattern.FindAllString(text, -1)
	if v.opts.StopWords != "" {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !isStopWord(tok, v.opts.StopWords) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	if v.opts.Stem {
		for i, tok := range tokens {
			tokens[i] = stem(tok)
		}
	}
	return tokens
}

// stopWordCache memoizes isStopWord by language and token.
var stopWordCache sync.Map

// isStopWord reports whether tok is in the stop list of lang. The list holds
// words only, so tokens with digits or underscores are never stop words;
// they are kept away from the library, whose segmenter drops digits.
func isStopWord(tok, lang string) bool {
	if strings.ContainsFunc(tok, func(r rune) bool { return r == '_' || unicode.IsDigit(r) }) {
		return false
	}
	key := lang + "\x00" + tok
	if v, ok := stopWordCache.Load(key); ok {
		return v.(bool)
	}
	stop := strings.TrimSpace(stopwords.CleanString(tok, lang, false)) == ""
	stopWordCache.Store(key, stop)
	return stop
}

// stem applies the Porter stemmer. The stemmer panics on a few inputs such
// as "eed"; those tokens are kept as they are.
func stem(tok string) (s string) {
	defer func() {
		if recover() != nil {
			s = tok
		}
	}()
	return porterstemmer.StemString(tok)
}

// Fit builds the vocabulary and the idf weights. themes is ignored.
func (v *Tfidf) Fit(texts []string, _ theme.Themes) error {
	if len(texts) == 0 {
		return ErrEmptyInput
	}
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, tok := range v.analyze(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	minDF := max(v.opts.MinDF, 1)
	features := make([]string, 0, len(df))
	for term, count := range df {
		if count >= minDF {
			features = append(features, term)
		}
	}
	if len(features) == 0 {
		return fmt.Errorf("%w: no terms left after analysis", ErrEmptyInput)
	}
	sort.Strings(features)

	n := float64(len(texts))
	idf := make([]float64, len(features))
	for i, term := range features {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.setState(features, idf)
	return nil
}

func (v *Tfidf) setState(features []string, idf []float64) {
	v.features = features
	v.idf = idf
	v.vocabulary = make(map[string]int, len(features))
	for i, term := range features {
		v.vocabulary[term] = i
	}
}

// Transform maps texts to L2-normalized tf-idf rows.
func (v *Tfidf) Transform(texts []string) (vector.TextVectors, error) {
	return v.TransformSparse(texts)
}

// TransformSparse is Transform with the concrete result type.
func (v *Tfidf) TransformSparse(texts []string) (*vector.Sparse, error) {
	if v.vocabulary == nil {
		return nil, ErrNotFitted
	}
	rows := make([][]vector.Entry, len(texts))
	for i, text := range texts {
		counts := make(map[int]float64)
		for _, tok := range v.analyze(text) {
			if col, ok := v.vocabulary[tok]; ok {
				counts[col]++
			}
		}
		length := 0.0
		for col, c := range counts {
			w := c * v.idf[col]
			counts[col] = w
			length += w * w
		}
		length = math.Sqrt(length)
		row := make([]vector.Entry, 0, len(counts))
		for col, w := range counts {
			row = append(row, vector.Entry{Col: col, Value: float32(w / length)})
		}
		rows[i] = row
	}
	m, err := vector.NewCSR(len(v.features), rows)
	if err != nil {
		return nil, err
	}
	return vector.NewSparse(m), nil
}

// NumFeatures returns the vocabulary size.
func (v *Tfidf) NumFeatures() (int, error) {
	if v.vocabulary == nil {
		return 0, ErrNotFitted
	}
	return len(v.features), nil
}

// FeatureNames returns the vocabulary in column order.
func (v *Tfidf) FeatureNames() ([]string, error) {
	if v.vocabulary == nil {
		return nil, ErrNotFitted
	}
	out := make([]string, len(v.features))
	copy(out, v.features)
	return out, nil
}

type tfidfState struct {
	Options  TfidfOptions
	Features []string
	IDF      []float64
}

// GobEncode implements gob.GobEncoder.
func (v *Tfidf) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(tfidfState{Options: v.opts, Features: v.features, IDF: v.idf})
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (v *Tfidf) GobDecode(b []byte) error {
	var st tfidfState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&st); err != nil {
		return err
	}
	if len(st.Features) != len(st.IDF) {
		return fmt.Errorf("tfidf state: %d features, %d idf weights", len(st.Features), len(st.IDF))
	}
	v.opts = st.Options
	if st.Features != nil {
		v.setState(st.Features, st.IDF)
	}
	return nil
}
