package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	PadToken  = "[PAD]"
	UnkToken  = "[UNK]"
	ClsToken  = "[CLS]"
	SepToken  = "[SEP]"
	MaskToken = "[MASK]"
)

// Vocab maps a WordPiece token to its id.
type Vocab map[string]int64

// NewVocab assigns ids in slice order. A repeated token keeps its last id.
func NewVocab(tokens []string) Vocab {
	v := make(Vocab, len(tokens))
	for i, tok := range tokens {
		v[tok] = int64(i)
	}
	return v
}

// LoadVocab reads a BERT vocab.txt file: one token per line, id = line number.
func LoadVocab(path string) (Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer func() { _ = f.Close() }()

	v := make(Vocab)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		tok := strings.TrimRight(scanner.Text(), "\r")
		if tok != "" {
			// a repeated token keeps its last id
			v[tok] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("vocab %s is empty", path)
	}
	return v, nil
}

// BasicVocab is a character level vocabulary covering printable ASCII.
// Every ASCII word tokenizes without [UNK], one piece per character.
func BasicVocab() Vocab {
	tokens := []string{PadToken, UnkToken, ClsToken, SepToken, MaskToken}
	for r := rune(33); r <= 126; r++ {
		if r >= 'A' && r <= 'Z' {
			continue
		}
		tokens = append(tokens, string(r))
	}
	for r := 'a'; r <= 'z'; r++ {
		tokens = append(tokens, "##"+string(r))
	}
	for r := '0'; r <= '9'; r++ {
		tokens = append(tokens, "##"+string(r))
	}
	return NewVocab(tokens)
}
