package compose

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/byakoron/internal/rules"
	"github.com/roach88/byakoron/internal/translit"
)

type recordedCommit struct {
	mode, input, output string
}

type fakeJournal struct {
	commits []recordedCommit
	err     error
}

func (j *fakeJournal) Record(_ context.Context, mode, input, output string) error {
	j.commits = append(j.commits, recordedCommit{mode, input, output})
	return j.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newComposer(opts ...Option) *Composer {
	tr := translit.New(rules.Default(), translit.WithLogger(quietLogger()))
	return New(tr, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

// typeText feeds s as character actions, mapping ' ' to Space.
func typeText(t *testing.T, c *Composer, doc *Document, s string) {
	t.Helper()
	for _, r := range s {
		a := Char(r)
		if r == ' ' {
			a = Space()
		}
		doc.Apply(c.Handle(context.Background(), a)...)
	}
}

func TestComposer_SpaceCommits(t *testing.T) {
	c := newComposer()
	var doc Document

	typeText(t, c, &doc, "ami")
	assert.Equal(t, "ami", doc.String())
	assert.Equal(t, "ami", c.Pending())

	edits := c.Handle(context.Background(), Space())
	require.Len(t, edits, 2)
	assert.Equal(t, Edit{Delete: 3, Insert: "আমি"}, edits[0])
	assert.Equal(t, Edit{Insert: " "}, edits[1])

	doc.Apply(edits...)
	assert.Equal(t, "আমি ", doc.String())
	assert.Equal(t, "", c.Pending())
}

func TestComposer_Sentence(t *testing.T) {
	c := newComposer()
	var doc Document

	typeText(t, c, &doc, "amar sonar bangla ")
	assert.Equal(t, "আমার সনার বাংলা ", doc.String())
}

func TestComposer_SpaceWithEmptyBuffer(t *testing.T) {
	c := newComposer()
	assert.Equal(t, []Edit{{Insert: " "}}, c.Handle(context.Background(), Space()))
}

func TestComposer_Commit(t *testing.T) {
	c := newComposer()
	var doc Document

	typeText(t, c, &doc, "ka")
	doc.Apply(c.Handle(context.Background(), Commit())...)
	assert.Equal(t, "কা", doc.String())
	assert.Nil(t, c.Handle(context.Background(), Commit()))
}

func TestComposer_Backspace(t *testing.T) {
	c := newComposer()
	var doc Document

	typeText(t, c, &doc, "kax")
	doc.Apply(c.Handle(context.Background(), Backspace())...)
	assert.Equal(t, "ka", c.Pending())
	assert.Equal(t, "ka", doc.String())

	typeText(t, c, &doc, " ")
	assert.Equal(t, "কা ", doc.String())

	// With nothing pending backspace still deletes from the document.
	doc.Apply(c.Handle(context.Background(), Backspace())...)
	assert.Equal(t, "কা", doc.String())
	assert.Equal(t, "", c.Pending())
}

func TestComposer_OtherAbandonsBuffer(t *testing.T) {
	c := newComposer()
	var doc Document

	typeText(t, c, &doc, "ka")
	doc.Apply(c.Handle(context.Background(), Other("\n"))...)
	assert.Equal(t, "", c.Pending())

	typeText(t, c, &doc, " ")
	assert.Equal(t, "ka\n ", doc.String())

	assert.Nil(t, c.Handle(context.Background(), Other("")))
}

func TestComposer_Journal(t *testing.T) {
	j := &fakeJournal{}
	c := newComposer(WithJournal(j))
	var doc Document

	typeText(t, c, &doc, "ami bhalo ")
	require.Len(t, j.commits, 2)
	assert.Equal(t, recordedCommit{"forward", "ami", "আমি"}, j.commits[0])
	assert.Equal(t, recordedCommit{"forward", "bhalo", "ভাল"}, j.commits[1])
}

func TestComposer_JournalFailureDoesNotBlockTyping(t *testing.T) {
	j := &fakeJournal{err: errors.New("disk full")}
	c := newComposer(WithJournal(j))
	var doc Document

	typeText(t, c, &doc, "ka ")
	assert.Equal(t, "কা ", doc.String())
}

func TestComposer_StubMode(t *testing.T) {
	c := newComposer(WithMode("banglish"))
	var doc Document

	typeText(t, c, &doc, "ka ")
	assert.Equal(t, "ka ", doc.String())
}

func TestDocument_DeleteClamps(t *testing.T) {
	var doc Document
	doc.Apply(Edit{Insert: "ab"}, Edit{Delete: 5, Insert: "c"})
	assert.Equal(t, "c", doc.String())
}
