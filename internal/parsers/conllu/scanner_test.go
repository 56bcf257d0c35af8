package conllu

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

func collectBlocks(t *testing.T, text string) []Block {
	t.Helper()
	var blocks []Block
	for block, err := range Blocks(strings.NewReader(text)) {
		require.NoError(t, err)
		blocks = append(blocks, block)
	}
	return blocks
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		comments []int
		tokens   []int
	}{
		{name: "empty", input: ""},
		{name: "only blank lines", input: "\n \n\t\n"},
		{
			name:     "single sentence without trailing newline",
			input:    "# a\n1\tx",
			comments: []int{1},
			tokens:   []int{1},
		},
		{
			name:     "runs of blank lines separate once",
			input:    "# a\n1\tx\n\n\n\n# b\n1\ty\n2\tz\n",
			comments: []int{1, 1},
			tokens:   []int{1, 2},
		},
		{
			name:     "comment after tokens stays in the block",
			input:    "1\tx\n# late\n2\ty\n",
			comments: []int{1},
			tokens:   []int{2},
		},
		{
			name:     "comment only block",
			input:    "# a\n# b\n\n1\tx\n",
			comments: []int{2, 0},
			tokens:   []int{0, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocks := collectBlocks(t, tc.input)
			require.Len(t, blocks, len(tc.comments))
			for i, b := range blocks {
				assert.Len(t, b.Comments, tc.comments[i], "block %d comments", i)
				assert.Len(t, b.Tokens, tc.tokens[i], "block %d tokens", i)
			}
		})
	}
}

func TestBlocks_LineNumbers(t *testing.T) {
	blocks := collectBlocks(t, "\n# a\n1\tx\r\n\n2\ty\n")
	require.Len(t, blocks, 2)

	assert.Equal(t, 2, blocks[0].Start())
	assert.Equal(t, Line{Number: 3, Text: "1\tx"}, blocks[0].Tokens[0])
	assert.Equal(t, 5, blocks[1].Start())
	assert.Equal(t, 0, Block{}.Start())
}

func TestBlocks_StopEarly(t *testing.T) {
	count := 0
	for range Blocks(strings.NewReader("1\ta\n\n1\tb\n\n1\tc\n")) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestBlocks_InvalidUTF8(t *testing.T) {
	var gotErr error
	var blocks int
	for _, err := range Blocks(strings.NewReader("1\ta\n\n1\t\xc3\x28\n")) {
		if err != nil {
			gotErr = err
			break
		}
		blocks++
	}
	assert.Equal(t, 1, blocks)
	require.Error(t, gotErr)
	assert.True(t, errors.Is(gotErr, domain.ErrUndecodable))
	assert.Contains(t, gotErr.Error(), "line 3")
}

func TestBlocks_ReadError(t *testing.T) {
	readErr := errors.New("disk gone")
	r := iotest.ErrReader(readErr)

	var gotErr error
	for _, err := range Blocks(r) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, readErr)
}
