// Package tokenizer implements the BERT WordPiece tokenizer used by the
// token level embedding models.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the BERT position limit, special tokens included.
const DefaultMaxLength = 512

const maxInputCharsPerWord = 100

var ErrMissingSpecialToken = errors.New("vocab is missing a special token")

type WordPiece struct {
	vocab     Vocab
	lowercase bool

	padID, unkID, clsID, sepID int64
}

type Option func(*WordPiece)

// WithCase keeps letter case and accents, for cased checkpoints.
func WithCase() Option {
	return func(w *WordPiece) { w.lowercase = false }
}

// New returns an uncased WordPiece tokenizer over vocab.
func New(vocab Vocab, opts ...Option) (*WordPiece, error) {
	w := &WordPiece{vocab: vocab, lowercase: true}
	for _, opt := range opts {
		opt(w)
	}
	for tok, dst := range map[string]*int64{
		PadToken: &w.padID,
		UnkToken: &w.unkID,
		ClsToken: &w.clsID,
		SepToken: &w.sepID,
	} {
		id, ok := vocab[tok]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSpecialToken, tok)
		}
		*dst = id
	}
	return w, nil
}

// Encoding is a single tokenized sequence including [CLS] and [SEP].
type Encoding struct {
	Tokens        []string
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
	Truncated     bool
}

// Batch holds equally long, padded sequences.
type Batch struct {
	InputIDs      [][]int64 `json:"input_ids"`
	AttentionMask [][]int64 `json:"attention_mask"`
	TokenTypeIDs  [][]int64 `json:"token_type_ids"`
}

func (b Batch) Len() int { return len(b.InputIDs) }

// Tokenize splits text into WordPiece tokens without special tokens.
func (w *WordPiece) Tokenize(text string) []string {
	var out []string
	for _, word := range w.basicTokenize(text) {
		out = append(out, w.wordPiece(word)...)
	}
	return out
}

// Encode tokenizes text and truncates it so the sequence, with [CLS] and
// [SEP], holds at most maxLength tokens. maxLength <= 0 means no limit.
func (w *WordPiece) Encode(text string, maxLength int) Encoding {
	tokens := w.Tokenize(text)
	var truncated bool
	if maxLength > 0 {
		limit := max(maxLength-2, 0)
		if len(tokens) > limit {
			tokens = tokens[:limit]
			truncated = true
		}
	}

	seq := make([]string, 0, len(tokens)+2)
	seq = append(seq, ClsToken)
	seq = append(seq, tokens...)
	seq = append(seq, SepToken)

	enc := Encoding{
		Tokens:        seq,
		InputIDs:      make([]int64, len(seq)),
		AttentionMask: make([]int64, len(seq)),
		TokenTypeIDs:  make([]int64, len(seq)),
		Truncated:     truncated,
	}
	for i, tok := range seq {
		enc.InputIDs[i] = w.id(tok)
		enc.AttentionMask[i] = 1
	}
	return enc
}

// EncodeBatch encodes every text and pads all sequences to the longest one.
// Padding positions carry [PAD] and a zero attention mask.
func (w *WordPiece) EncodeBatch(texts []string, maxLength int) Batch {
	encs := make([]Encoding, len(texts))
	longest := 0
	for i, text := range texts {
		encs[i] = w.Encode(text, maxLength)
		longest = max(longest, len(encs[i].InputIDs))
	}

	batch := Batch{
		InputIDs:      make([][]int64, len(texts)),
		AttentionMask: make([][]int64, len(texts)),
		TokenTypeIDs:  make([][]int64, len(texts)),
	}
	for i, enc := range encs {
		ids := make([]int64, longest)
		mask := make([]int64, longest)
		copy(ids, enc.InputIDs)
		copy(mask, enc.AttentionMask)
		for j := len(enc.InputIDs); j < longest; j++ {
			ids[j] = w.padID
		}
		batch.InputIDs[i] = ids
		batch.AttentionMask[i] = mask
		batch.TokenTypeIDs[i] = make([]int64, longest)
	}
	return batch
}

func (w *WordPiece) id(tok string) int64 {
	if id, ok := w.vocab[tok]; ok {
		return id
	}
	return w.unkID
}

// wordPiece splits a word by greedy longest-match-first lookup.
func (w *WordPiece) wordPiece(word string) []string {
	runes := []rune(word)
	if len(runes) > maxInputCharsPerWord {
		return []string{UnkToken}
	}

	var pieces []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		cur := ""
		for start < end {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if _, ok := w.vocab[sub]; ok {
				cur = sub
				break
			}
			end--
		}
		if cur == "" {
			return []string{UnkToken}
		}
		pieces = append(pieces, cur)
		start = end
	}
	return pieces
}

func (w *WordPiece) basicTokenize(text string) []string {
	text = spaceCJK(clean(text))

	var out []string
	for _, word := range strings.Fields(text) {
		if w.lowercase {
			word = stripAccents(strings.ToLower(word))
		}
		out = append(out, splitPunctuation(word)...)
	}
	return out
}

// clean drops invalid and control characters and maps whitespace to ' '.
func clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0 || r == unicode.ReplacementChar:
		case isWhitespace(r):
			b.WriteRune(' ')
		case isControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func spaceCJK(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isCJK(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripAccents(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range norm.NFD.String(word) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitPunctuation(word string) []string {
	var out []string
	var cur []rune
	for _, r := range word {
		if isPunctuation(r) {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			out = append(out, string(r))
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	return unicode.In(r, unicode.C)
}

// isPunctuation treats all non-alphanumeric ASCII as punctuation, like BERT.
func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
