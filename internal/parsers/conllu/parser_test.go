package conllu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	normaliser "github.com/custodia-labs/conllu-cli/internal/normalisers/conllu"
)

// tokenLine builds a ten-column token line from the given columns,
// padding missing columns with "_".
func tokenLine(cols ...string) string {
	for len(cols) < numColumns {
		cols = append(cols, "_")
	}
	return strings.Join(cols, "\t")
}

const wellFormed = `# sent_id = s1
# text = The dog barks.
1	The	the	DET	DT	Definite=Def|PronType=Art	2	det	2:det	_
2	dog	dog	NOUN	NN	Number=Sing	3	nsubj	3:nsubj	_
3	barks	bark	VERB	VBZ	Mood=Ind|Number=Sing	0	root	0:root	SpaceAfter=No
4	.	.	PUNCT	.	_	3	punct	3:punct	_

# sent_id = s2
# text = It sleeps.
1	It	it	PRON	PRP	_	2	nsubj	2:nsubj	_
2	sleeps	sleep	VERB	VBZ	_	0	root	0:root	SpaceAfter=No
3	.	.	PUNCT	.	_	2	punct	2:punct	_
`

func TestParse_WellFormed(t *testing.T) {
	p := New()

	result, err := p.Parse(3, "sample.conllu", "ud", wellFormed)
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Empty(t, result.Diagnostics)

	doc := result.Document
	assert.Equal(t, 3, doc.ID)
	assert.Equal(t, "sample.conllu", doc.Filename)
	assert.Equal(t, "ud", doc.Source)
	require.Len(t, doc.Sentences, 2)

	first := doc.Sentences[0]
	assert.Equal(t, 3, first.DocID)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "The dog barks.", first.Text)
	assert.Equal(t, "s1", first.Metadata.Get("sent_id"))
	require.Len(t, first.Tokens, 4)

	second := doc.Sentences[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "It sleeps.", second.Text)
	require.Len(t, second.Tokens, 3)

	assert.Equal(t, 7, doc.TokenCount())
}

func TestParse_TokenFields(t *testing.T) {
	result, err := New().Parse(1, "f", "", wellFormed)
	require.NoError(t, err)

	barks := result.Document.Sentences[0].Tokens[2]
	assert.Equal(t, 3, barks.ID)
	assert.Equal(t, 1, barks.SentID)

	f := barks.Fields
	assert.Equal(t, "3", f.Index)
	assert.Equal(t, "barks", f.Form)
	assert.Equal(t, "bark", f.Lemma)
	assert.Equal(t, "VERB", f.UPOS)
	assert.Equal(t, "VBZ", f.XPOS)
	assert.Equal(t, domain.Attrs{
		{Key: "Mood", Value: "Ind"},
		{Key: "Number", Value: "Sing"},
	}, f.Feats)
	assert.Equal(t, domain.Head(0), f.Head)
	assert.True(t, f.Head.IsSet())
	assert.Equal(t, "root", f.DepRel)
	assert.Equal(t, []domain.Dep{{Head: 0, Relation: "root"}}, f.Deps)
	assert.Equal(t, "No", f.Misc.Get("SpaceAfter"))
}

func TestParse_DefaultSource(t *testing.T) {
	result, err := New().Parse(1, "f", "", wellFormed)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSource, result.Document.Source)
}

func TestParse_WrappedTextScenario(t *testing.T) {
	raw := "# text = Hello\n# text continued\nworld.\n" +
		"1\tHello\t_\t_\t_\t_\t_\t_\t_\t_\n" +
		"2\tworld.\t_\t_\t_\t_\t_\t_\t_\t_\n\n"

	result, err := New().Parse(1, "hello.conllu", "", normaliser.Normalise(raw))
	require.NoError(t, err)

	doc := result.Document
	require.Len(t, doc.Sentences, 1)
	sent := doc.Sentences[0]
	assert.Equal(t, 1, sent.ID)
	assert.Equal(t, "Hello world.", sent.Text)
	require.Len(t, sent.Tokens, 2)
	assert.Equal(t, 1, sent.Tokens[0].ID)
	assert.Equal(t, 2, sent.Tokens[1].ID)
}

func TestParse_SentenceNumbering(t *testing.T) {
	text := "# text = one\n" + tokenLine("1", "a") + "\n\n\n" +
		"# only comments\n# text = two\n\n" +
		tokenLine("1", "b") + "\n" + tokenLine("2", "c") + "\n\n" +
		"# text = four\n" + tokenLine("1", "d") + "\n"

	result, err := New().Parse(1, "f", "", text)
	require.NoError(t, err)

	doc := result.Document
	require.Len(t, doc.Sentences, 4)
	for i, sent := range doc.Sentences {
		assert.Equal(t, i+1, sent.ID)
		assert.Equal(t, 1, sent.DocID)
	}

	t.Run("comment-only block counts as a sentence", func(t *testing.T) {
		assert.Equal(t, "two", doc.Sentences[1].Text)
		assert.Empty(t, doc.Sentences[1].Tokens)
	})

	t.Run("missing text metadata is empty, not an error", func(t *testing.T) {
		assert.Equal(t, "", doc.Sentences[2].Text)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("token ids restart per sentence", func(t *testing.T) {
		assert.Equal(t, 1, doc.Sentences[2].Tokens[0].ID)
		assert.Equal(t, 2, doc.Sentences[2].Tokens[1].ID)
		assert.Equal(t, 1, doc.Sentences[3].Tokens[0].ID)
		assert.Equal(t, 4, doc.Sentences[3].Tokens[0].SentID)
	})
}

func TestParse_EmptyFieldSentinels(t *testing.T) {
	result, err := New().Parse(1, "f", "", tokenLine("1", "_", "_")+"\n")
	require.NoError(t, err)

	f := result.Document.Sentences[0].Tokens[0].Fields
	assert.Equal(t, "_", f.Form, "FORM keeps a literal underscore")
	assert.Equal(t, "_", f.Lemma, "LEMMA keeps a literal underscore")
	assert.Equal(t, "", f.UPOS)
	assert.Equal(t, "", f.XPOS)
	assert.Equal(t, "", f.DepRel)
	assert.Empty(t, f.Feats)
	assert.False(t, f.Feats.Has("_"))
	assert.Empty(t, f.Deps)
	assert.Empty(t, f.Misc)
	assert.Equal(t, domain.NoHead, f.Head)
	assert.False(t, f.Head.IsSet())
}

func TestParse_MalformedFeatsScenario(t *testing.T) {
	line := tokenLine("1", "dog", "dog", "NOUN", "_", "Number=Sing|Case")

	result, err := New().Parse(4, "feats.conllu", "", "# text = dog\n"+line+"\n")
	require.NoError(t, err)

	tokens := result.Document.Sentences[0].Tokens
	require.Len(t, tokens, 1)
	assert.Equal(t, domain.Attrs{{Key: "Number", Value: "Sing"}}, tokens[0].Fields.Feats)
	assert.Equal(t, map[string]string{"Number": "Sing"}, tokens[0].Fields.Feats.Map())

	require.Len(t, result.Diagnostics, 1)
	diag := result.Diagnostics[0]
	assert.Equal(t, domain.KindFieldDecode, diag.Kind)
	assert.Equal(t, FieldFeats, diag.Field)
	assert.Equal(t, "Case", diag.Content)
	assert.Equal(t, "feats.conllu", diag.Filename)
	assert.Equal(t, 4, diag.DocID)
	assert.Equal(t, 1, diag.SentID)
	assert.Equal(t, 2, diag.Line)
	assert.True(t, errors.Is(diag, domain.ErrFieldDecode))
}

func TestParse_ShortTokenLineScenario(t *testing.T) {
	text := "# text = a b c\n" +
		tokenLine("1", "a") + "\n" +
		"2\tb\t_\t_\t_\t_\t_\t_\n" +
		tokenLine("3", "c") + "\n"

	result, err := New().Parse(1, "short.conllu", "", text)
	require.NoError(t, err)

	sent := result.Document.Sentences[0]
	require.Len(t, sent.Tokens, 2)
	assert.Equal(t, 1, sent.Tokens[0].ID)
	assert.Equal(t, "a", sent.Tokens[0].Fields.Form)
	assert.Equal(t, 2, sent.Tokens[1].ID)
	assert.Equal(t, "c", sent.Tokens[1].Fields.Form)
	assert.Equal(t, "3", sent.Tokens[1].Fields.Index)

	require.Len(t, result.Diagnostics, 1)
	diag := result.Diagnostics[0]
	assert.Equal(t, domain.KindStructural, diag.Kind)
	assert.Equal(t, 3, diag.Line)
	assert.Equal(t, 1, diag.SentID)
	assert.Equal(t, "2\tb\t_\t_\t_\t_\t_\t_", diag.Content)
	assert.Contains(t, diag.Message, "found 8")
	assert.ErrorIs(t, diag, domain.ErrStructural)
}

func TestParse_MultiwordAndEmptyNodes(t *testing.T) {
	text := "# text = del coche\n" +
		tokenLine("1-2", "del") + "\n" +
		tokenLine("1", "de", "de", "ADP", "_", "_", "3", "case", "3:case") + "\n" +
		tokenLine("2", "el", "el", "DET", "_", "_", "3", "det", "3:det") + "\n" +
		tokenLine("2.1", "va", "ir", "VERB", "_", "_", "_", "_", "0:root|3:nmod:poss") + "\n" +
		tokenLine("3", "coche", "coche", "NOUN", "_", "_", "0", "root", "0:root|2.1:obj") + "\n"

	result, err := New().Parse(1, "f", "", text)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)

	tokens := result.Document.Sentences[0].Tokens
	require.Len(t, tokens, 5)
	for i, tok := range tokens {
		assert.Equal(t, i+1, tok.ID)
	}

	assert.Equal(t, domain.IndexMultiword, tokens[0].Fields.IndexKind())
	assert.Equal(t, domain.IndexWord, tokens[1].Fields.IndexKind())
	assert.Equal(t, domain.IndexEmptyNode, tokens[3].Fields.IndexKind())

	assert.Equal(t, []domain.Dep{
		{Head: 0, Relation: "root"},
		{Head: 3, Relation: "nmod:poss"},
	}, tokens[3].Fields.Deps)
	assert.Equal(t, []domain.Dep{
		{Head: 0, Relation: "root"},
		{Head: 2, EmptyNode: 1, Relation: "obj"},
	}, tokens[4].Fields.Deps)
}

func TestParse_FirstTextWins(t *testing.T) {
	text := "# text = first\n# text = second\n" + tokenLine("1", "x") + "\n"

	result, err := New().Parse(1, "f", "", text)
	require.NoError(t, err)

	sent := result.Document.Sentences[0]
	assert.Equal(t, "first", sent.Text)
	assert.Len(t, sent.Metadata, 2)
	assert.Empty(t, result.Diagnostics)
}

func TestParse_CommentMetadata(t *testing.T) {
	text := "# newdoc id = d1\n# newpar\n# text =  two spaces\n#\n" + tokenLine("1", "x") + "\n"

	result, err := New().Parse(1, "f", "", text)
	require.NoError(t, err)

	sent := result.Document.Sentences[0]
	assert.Equal(t, domain.Attrs{
		{Key: "newdoc id", Value: "d1"},
		{Key: "newpar", Bare: true},
		{Key: "text", Value: " two spaces"},
	}, sent.Metadata)
	assert.Equal(t, " two spaces", sent.Text, "only one leading space is removed")
}

func TestParse_CRLFAndNoTrailingNewline(t *testing.T) {
	text := "# text = a\r\n" + tokenLine("1", "a") + "\r\n\r\n# text = b\r\n" + tokenLine("1", "b")

	result, err := New().Parse(1, "f", "", text)
	require.NoError(t, err)

	doc := result.Document
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, "a", doc.Sentences[0].Text)
	assert.Equal(t, "_", doc.Sentences[0].Tokens[0].Fields.Misc.String())
	assert.Equal(t, "b", doc.Sentences[1].Tokens[0].Fields.Form)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n", "\n\n  \n"} {
		result, err := New().Parse(1, "f", "", text)
		require.NoError(t, err)
		assert.Empty(t, result.Document.Sentences)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	text := "# text = ok\n1\t\xff\xfe\t_\t_\t_\t_\t_\t_\t_\t_\n"

	result, err := New().Parse(1, "bad.conllu", "", text)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUndecodable)
	assert.Contains(t, err.Error(), "bad.conllu")
}

func TestParseReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ParseReader(ctx, 1, "f", "", strings.NewReader(wellFormed))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_RoundTripTokenCounts(t *testing.T) {
	result, err := New().Parse(1, "f", "", wellFormed)
	require.NoError(t, err)

	blocks := strings.Split(strings.TrimSpace(wellFormed), "\n\n")
	require.Len(t, result.Document.Sentences, len(blocks))

	for i, block := range blocks {
		var tokens int
		var text string
		for _, ln := range strings.Split(block, "\n") {
			if v, ok := strings.CutPrefix(ln, "# text = "); ok {
				text = v
				continue
			}
			if !strings.HasPrefix(ln, "#") {
				tokens++
			}
		}
		assert.Equal(t, text, result.Document.Sentences[i].Text)
		assert.Len(t, result.Document.Sentences[i].Tokens, tokens)
	}
}
