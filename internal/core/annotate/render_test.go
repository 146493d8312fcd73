package annotate

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagPattern = regexp.MustCompile(`</?span[^>]*>`)

// stripTags removes rendered span tags and undoes segment escaping,
// recovering the literal text the renderer was given.
func stripTags(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
}

func TestRenderHTML_EmptySet(t *testing.T) {
	const text = "plain text, no annotations"
	assert.Equal(t, text, RenderHTML(text, NewSet(), ""))
	assert.Equal(t, text, RenderHTML(text, nil, ""))
}

func TestRenderHTML_PreservesText(t *testing.T) {
	const text = "Risk A. Risk B. Risk C."

	set := NewSet()
	_, err := set.AddRejection(Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)
	_, err = set.AddComment(Range{Start: 8, End: 14}, "Risk B", "check this")
	require.NoError(t, err)

	out := RenderHTML(text, set, "")
	assert.Equal(t, text, stripTags(out), "tags stripped must equal canonical text exactly")
}

func TestRenderHTML_EndToEnd(t *testing.T) {
	const text = "Risk A. Risk B."

	set := NewSet()
	rejectID, err := set.AddRejection(Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)
	_, err = set.AddComment(Range{Start: 8, End: 14}, "Risk B", "check this")
	require.NoError(t, err)

	t.Run("no hover", func(t *testing.T) {
		out := RenderHTML(text, set, "")

		want := fmt.Sprintf(
			`<span class="rl-rejection" data-id="%s">Risk A</span>. <span class="rl-comment" data-id="%s">Risk B</span>.`,
			rejectID, set.Comments()[0].ID,
		)
		assert.Equal(t, want, out)
	})

	t.Run("hovering the rejection upgrades only its span", func(t *testing.T) {
		out := RenderHTML(text, set, rejectID)

		assert.Contains(t, out, `class="rl-rejection rl-hover"`)
		assert.Contains(t, out, `class="rl-comment"`)
		assert.NotContains(t, out, `class="rl-comment rl-hover"`)
	})
}

func TestRenderHTML_AdjacentRanges(t *testing.T) {
	// range1.end == range2.start: close tag must be emitted strictly
	// before the next open tag.
	const text = "aaabbb"

	set := NewSet()
	_, err := set.AddRejection(Range{Start: 0, End: 3}, "aaa")
	require.NoError(t, err)
	_, err = set.AddComment(Range{Start: 3, End: 6}, "bbb", "note")
	require.NoError(t, err)

	out := RenderHTML(text, set, "")
	closeIdx := strings.Index(out, "</span>")
	openIdx := strings.Index(out, `<span class="rl-comment"`)
	require.GreaterOrEqual(t, closeIdx, 0)
	require.GreaterOrEqual(t, openIdx, 0)
	assert.Less(t, closeIdx, openIdx, "closing tag must precede the adjacent opening tag")
	assert.Equal(t, text, stripTags(out))
}

func TestRenderHTML_CrossingRanges(t *testing.T) {
	// Genuine interval crossing produces improperly nested markup by
	// design; character content must still survive intact.
	const text = "0123456789abcde"

	set := NewSet()
	_, err := set.AddRejection(Range{Start: 0, End: 10}, text[0:10])
	require.NoError(t, err)
	_, err = set.AddComment(Range{Start: 5, End: 15}, text[5:15], "overlaps")
	require.NoError(t, err)

	out := RenderHTML(text, set, "")
	assert.Equal(t, text, stripTags(out))
	assert.Equal(t, 2, strings.Count(out, "<span"), "one open tag per annotation")
	assert.Equal(t, 2, strings.Count(out, "</span>"))
}

func TestRenderHTML_EscapesBeforeInsertion(t *testing.T) {
	const text = `Use <b>bold</b> & "quotes" here`

	set := NewSet()
	r, ok := Resolve("<b>bold</b>", text)
	require.True(t, ok)
	_, err := set.AddComment(r, "<b>bold</b>", "markup-significant selection")
	require.NoError(t, err)

	out := RenderHTML(text, set, "")

	assert.NotContains(t, out, "<b>", "literal markup must be escaped")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, out, "&amp;")
	assert.Equal(t, text, stripTags(out), "escaping must not lose characters")
}

func TestRenderHTML_RemoveRestoresOutput(t *testing.T) {
	const text = "Risk A. Risk B."

	baseline := NewSet()
	_, err := baseline.AddRejection(Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)

	set := NewSet()
	_, err = set.AddRejection(Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)
	commentID, err := set.AddComment(Range{Start: 8, End: 14}, "Risk B", "temp")
	require.NoError(t, err)

	set.Remove(commentID)

	// Rendered structure must match a set where the comment never
	// existed. IDs differ between the two sets, so compare with ids
	// normalized away.
	idPattern := regexp.MustCompile(`data-id="[^"]*"`)
	normalize := func(s string) string { return idPattern.ReplaceAllString(s, `data-id=""`) }

	assert.Equal(t,
		normalize(RenderHTML(text, baseline, "")),
		normalize(RenderHTML(text, set, "")),
	)
}

func TestRender_ZeroLengthRange(t *testing.T) {
	// A zero-length range contributes an open immediately followed by a
	// close; no characters are lost.
	const text = "abc"
	set := NewSet()
	set.append(Annotation{ID: "z", Kind: KindComment, Range: Range{Start: 1, End: 1}, SelectedText: ""})

	out := RenderHTML(text, set, "")
	assert.Equal(t, text, stripTags(out))
}

func TestRender_SkipsStaleRanges(t *testing.T) {
	// Ranges past the end of a (shorter, replaced) text are skipped
	// rather than panicking.
	set := NewSet()
	_, err := set.AddRejection(Range{Start: 10, End: 20}, "0123456789")
	require.NoError(t, err)

	out := RenderHTML("short", set, "")
	assert.Equal(t, "short", out)
}

func TestPartition(t *testing.T) {
	const text = "0123456789abcde"

	set := NewSet()
	rejID, err := set.AddRejection(Range{Start: 0, End: 10}, text[0:10])
	require.NoError(t, err)
	comID, err := set.AddComment(Range{Start: 5, End: 15}, text[5:15], "note")
	require.NoError(t, err)

	runs := Partition(text, set)
	require.Len(t, runs, 3)

	var rebuilt strings.Builder
	for _, run := range runs {
		rebuilt.WriteString(run.Text)
	}
	assert.Equal(t, text, rebuilt.String(), "runs must partition the text exactly")

	assert.Equal(t, "01234", runs[0].Text)
	require.Len(t, runs[0].Active, 1)
	assert.Equal(t, rejID, runs[0].Active[0].ID)

	assert.Equal(t, "56789", runs[1].Text)
	assert.Len(t, runs[1].Active, 2, "overlap region carries both annotations")
	assert.True(t, runs[1].HasKind(KindComment))
	assert.True(t, runs[1].HasKind(KindRejection))
	assert.True(t, runs[1].Hovered(rejID))
	assert.True(t, runs[1].Hovered(comID))
	assert.False(t, runs[1].Hovered(""))

	assert.Equal(t, "abcde", runs[2].Text)
	require.Len(t, runs[2].Active, 1)
	assert.Equal(t, comID, runs[2].Active[0].ID)
}

func TestPartition_NoAnnotations(t *testing.T) {
	runs := Partition("hello", NewSet())
	require.Len(t, runs, 1)
	assert.Equal(t, "hello", runs[0].Text)
	assert.Empty(t, runs[0].Active)

	assert.Empty(t, Partition("", NewSet()))
}

func TestRenderPartitionedHTML_WellFormed(t *testing.T) {
	const text = "0123456789abcde"

	set := NewSet()
	_, err := set.AddRejection(Range{Start: 0, End: 10}, text[0:10])
	require.NoError(t, err)
	_, err = set.AddComment(Range{Start: 5, End: 15}, text[5:15], "note")
	require.NoError(t, err)

	out := RenderPartitionedHTML(text, set, "")

	// Every open is closed before the next opens: no nesting at all.
	assert.Equal(t, strings.Count(out, "<span"), strings.Count(out, "</span>"))
	assert.NotRegexp(t, `<span[^>]*>[^<]*<span`, out, "partitioned output must not nest spans")

	// The overlap run carries both annotation classes.
	assert.Contains(t, out, `class="rl-comment rl-rejection"`)
	assert.Equal(t, text, stripTags(out))
}

func TestRenderANSI(t *testing.T) {
	set := NewSet()
	a, err := set.AddComment(Range{Start: 4, End: 7}, "cat", "note")
	require.NoError(t, err)

	got := RenderANSI("the cat sat", set, "")
	assert.Equal(t, "the \x1b[4mcat\x1b[0m sat", got)

	hovered := RenderANSI("the cat sat", set, a)
	assert.Equal(t, "the \x1b[4;7mcat\x1b[0m sat", hovered)

	_, err = set.AddRejection(Range{Start: 8, End: 11}, "sat")
	require.NoError(t, err)
	assert.Contains(t, RenderANSI("the cat sat", set, ""), "\x1b[9msat\x1b[0m")
}
