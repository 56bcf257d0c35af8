package conllu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// maxLineSize bounds a single physical line. Reflowed comments can be long.
const maxLineSize = 16 * 1024 * 1024

// state is the position of the line scanner relative to sentence blocks.
type state int

const (
	stateBetweenSentences state = iota
	stateInSentenceComments
	stateInSentenceTokens
)

// Line is one physical line of input with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Block is the raw text of one sentence: its comment lines and its token
// lines, both in input order.
type Block struct {
	Comments []Line
	Tokens   []Line
}

// Start returns the line number of the first line in the block.
func (b Block) Start() int {
	switch {
	case len(b.Comments) == 0 && len(b.Tokens) == 0:
		return 0
	case len(b.Comments) == 0:
		return b.Tokens[0].Number
	case len(b.Tokens) == 0 || b.Comments[0].Number < b.Tokens[0].Number:
		return b.Comments[0].Number
	default:
		return b.Tokens[0].Number
	}
}

// Blocks yields the blank-line-delimited sentence blocks of r one at a time,
// so a file never has to be held as one buffer. Iteration stops after the
// first error, which is either a read failure or invalid UTF-8.
func Blocks(r io.Reader) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		st := stateBetweenSentences
		var block Block
		number := 0

		for scanner.Scan() {
			number++
			text := strings.TrimSuffix(scanner.Text(), "\r")
			if !utf8.ValidString(text) {
				yield(Block{}, fmt.Errorf("line %d: %w", number, domain.ErrUndecodable))
				return
			}

			switch {
			case strings.TrimSpace(text) == "":
				if st == stateBetweenSentences {
					continue
				}
				if !yield(block, nil) {
					return
				}
				block = Block{}
				st = stateBetweenSentences

			case strings.HasPrefix(text, "#"):
				block.Comments = append(block.Comments, Line{Number: number, Text: text})
				if st == stateBetweenSentences {
					st = stateInSentenceComments
				}

			default:
				block.Tokens = append(block.Tokens, Line{Number: number, Text: text})
				st = stateInSentenceTokens
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Block{}, fmt.Errorf("line %d: %w", number+1, err))
			return
		}
		if st != stateBetweenSentences {
			yield(block, nil)
		}
	}
}
