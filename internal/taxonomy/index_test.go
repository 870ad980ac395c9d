package taxonomy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceaikb/internal/models"
)

func ptr(s string) *string { return &s }

// sample returns a small taxonomy whose source order differs from its
// navigation order, which matters for pagination.
func sample() []models.Category {
	return []models.Category{
		{ID: "foundations", Title: "Foundations", Slug: "foundations", Order: 1},
		{ID: "asr", Title: "Speech Recognition", Slug: "speech-recognition", ParentID: ptr("foundations"), Order: 2},
		{ID: "tts", Title: "Speech Synthesis", Slug: "speech-synthesis", ParentID: ptr("foundations"), Order: 1},
		{ID: "agents", Title: "Voice Agents", Slug: "voice-agents", Order: 0},
		{ID: "turn", Title: "Turn Taking", Slug: "turn-taking", ParentID: ptr("agents"), Order: 1},
		{ID: "vad", Title: "Voice Activity", Slug: "vad", ParentID: ptr("turn"), Order: 1},
	}
}

func mustIndex(t *testing.T, cats []models.Category) *Index {
	t.Helper()
	idx, err := New(cats)
	require.NoError(t, err)
	return idx
}

func TestHref(t *testing.T) {
	idx := mustIndex(t, sample())

	tests := []struct {
		id   string
		want string
	}{
		{"foundations", "/topics/foundations"},
		{"asr", "/topics/foundations/speech-recognition"},
		{"vad", "/topics/voice-agents/turn-taking/vad"},
	}
	for _, tt := range tests {
		c, ok := idx.ByID(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, idx.Href(c), tt.id)
	}
}

func TestHrefOrphanTreatedAsRoot(t *testing.T) {
	cats := []models.Category{
		{ID: "lost", Title: "Lost", Slug: "lost", ParentID: ptr("missing")},
		{ID: "child", Title: "Child", Slug: "child", ParentID: ptr("lost")},
	}
	idx := mustIndex(t, cats)

	lost, _ := idx.ByID("lost")
	child, _ := idx.ByID("child")
	assert.Equal(t, "/topics/lost", idx.Href(lost))
	assert.Equal(t, "/topics/lost/child", idx.Href(child))

	tree := idx.NavigationTree()
	require.Len(t, tree, 1)
	assert.Equal(t, "lost", tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "/topics/lost/child", tree[0].Children[0].Href)
}

func TestNavigationTreeOrdersSiblings(t *testing.T) {
	cats := []models.Category{
		{ID: "p", Title: "Parent", Slug: "p"},
		{ID: "a", Title: "A", Slug: "a", ParentID: ptr("p"), Order: 2},
		{ID: "b", Title: "B", Slug: "b", ParentID: ptr("p"), Order: 1},
	}
	idx := mustIndex(t, cats)

	tree := idx.NavigationTree()
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "b", tree[0].Children[0].ID)
	assert.Equal(t, "a", tree[0].Children[1].ID)
}

func TestNavigationTreeStableTies(t *testing.T) {
	cats := []models.Category{
		{ID: "x", Title: "X", Slug: "x", Order: 1},
		{ID: "y", Title: "Y", Slug: "y", Order: 1},
		{ID: "z", Title: "Z", Slug: "z", Order: 0},
	}
	idx := mustIndex(t, cats)

	tree := idx.NavigationTree()
	ids := []string{tree[0].ID, tree[1].ID, tree[2].ID}
	assert.Equal(t, []string{"z", "x", "y"}, ids)
}

func TestNavigationTreeHrefsMatchHref(t *testing.T) {
	idx := mustIndex(t, sample())

	var walk func(nodes []models.NavNode)
	walk = func(nodes []models.NavNode) {
		for _, n := range nodes {
			c, ok := idx.ByID(n.ID)
			require.True(t, ok)
			assert.Equal(t, idx.Href(c), n.Href)
			walk(n.Children)
		}
	}
	walk(idx.NavigationTree())
}

func TestTopicMetadata(t *testing.T) {
	idx := mustIndex(t, sample())

	c, ok := idx.TopicMetadata([]string{"foundations", "speech-recognition"})
	require.True(t, ok)
	assert.Equal(t, "asr", c.ID)

	_, ok = idx.TopicMetadata(nil)
	assert.False(t, ok, "empty path never resolves")

	_, ok = idx.TopicMetadata([]string{})
	assert.False(t, ok)

	_, ok = idx.TopicMetadata([]string{"foundations", "nope"})
	assert.False(t, ok)

	_, ok = idx.TopicMetadata([]string{"speech-recognition"})
	assert.False(t, ok, "child slug is not reachable from the root level")
}

func TestTopicMetadataRoundTrip(t *testing.T) {
	idx := mustIndex(t, sample())

	for _, path := range idx.AllTopicSlugs() {
		c, ok := idx.TopicMetadata(path)
		require.True(t, ok, path)
		assert.Equal(t, HrefFor(path), idx.Href(c))
	}
}

func TestTopicMetadataDuplicateSiblingSlug(t *testing.T) {
	cats := []models.Category{
		{ID: "second", Title: "Second", Slug: "dup", Order: 2},
		{ID: "first", Title: "First", Slug: "dup", Order: 1},
	}
	idx := mustIndex(t, cats)

	c, ok := idx.TopicMetadata([]string{"dup"})
	require.True(t, ok)
	assert.Equal(t, "first", c.ID, "first match in sibling order wins")
}

func TestDuplicateIDLastWriteWins(t *testing.T) {
	cats := []models.Category{
		{ID: "a", Title: "Old", Slug: "a"},
		{ID: "a", Title: "New", Slug: "a"},
	}
	idx := mustIndex(t, cats)

	c, ok := idx.ByID("a")
	require.True(t, ok)
	assert.Equal(t, "New", c.Title)
	assert.Equal(t, 1, idx.Len())
}

func TestAllTopicSlugsSourceOrder(t *testing.T) {
	idx := mustIndex(t, sample())

	want := [][]string{
		{"foundations"},
		{"foundations", "speech-recognition"},
		{"foundations", "speech-synthesis"},
		{"voice-agents"},
		{"voice-agents", "turn-taking"},
		{"voice-agents", "turn-taking", "vad"},
	}
	assert.Equal(t, want, idx.AllTopicSlugs())
}

func TestPrevNext(t *testing.T) {
	idx := mustIndex(t, sample())
	all := idx.AllTopicSlugs()

	prev, next := idx.PrevNext(all[0])
	assert.Nil(t, prev)
	assert.Equal(t, all[1], next)

	prev, next = idx.PrevNext(all[len(all)-1])
	assert.Equal(t, all[len(all)-2], prev)
	assert.Nil(t, next)

	// Source order: speech-recognition comes before speech-synthesis even
	// though navigation lists synthesis first.
	prev, next = idx.PrevNext([]string{"foundations", "speech-recognition"})
	assert.Equal(t, []string{"foundations"}, prev)
	assert.Equal(t, []string{"foundations", "speech-synthesis"}, next)

	prev, next = idx.PrevNext([]string{"unknown"})
	assert.Nil(t, prev)
	assert.Nil(t, next)
}

func TestTopicLink(t *testing.T) {
	idx := mustIndex(t, sample())

	link := idx.TopicLink([]string{"voice-agents", "turn-taking"})
	require.NotNil(t, link)
	assert.Equal(t, "Turn Taking", link.Title)
	assert.Equal(t, "/topics/voice-agents/turn-taking", link.Href)

	assert.Nil(t, idx.TopicLink(nil))
	assert.Nil(t, idx.TopicLink([]string{"missing"}))
}

func TestBreadcrumbs(t *testing.T) {
	idx := mustIndex(t, sample())
	c, _ := idx.ByID("vad")

	want := []models.Breadcrumb{
		{Label: "Voice Agents", Href: "/topics/voice-agents"},
		{Label: "Turn Taking", Href: "/topics/voice-agents/turn-taking"},
		{Label: "Voice Activity", Href: "/topics/voice-agents/turn-taking/vad"},
	}
	assert.Equal(t, want, idx.Breadcrumbs(c))
}

func TestRootOf(t *testing.T) {
	idx := mustIndex(t, sample())

	assert.Equal(t, "agents", idx.RootOf("vad").ID)
	assert.Equal(t, "foundations", idx.RootOf("foundations").ID)
	assert.Nil(t, idx.RootOf("missing"))
}

func TestCycleDetected(t *testing.T) {
	tests := []struct {
		name string
		cats []models.Category
	}{
		{
			name: "self parent",
			cats: []models.Category{{ID: "a", Slug: "a", ParentID: ptr("a")}},
		},
		{
			name: "two node loop",
			cats: []models.Category{
				{ID: "a", Slug: "a", ParentID: ptr("b")},
				{ID: "b", Slug: "b", ParentID: ptr("a")},
			},
		},
		{
			name: "loop below a root",
			cats: []models.Category{
				{ID: "root", Slug: "root"},
				{ID: "c", Slug: "c", ParentID: ptr("root")},
				{ID: "x", Slug: "x", ParentID: ptr("z")},
				{ID: "y", Slug: "y", ParentID: ptr("x")},
				{ID: "z", Slug: "z", ParentID: ptr("y")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cats)
			assert.True(t, errors.Is(err, ErrCycle), "got %v", err)
		})
	}
}

func TestEmptyIDIsAnOrdinaryRoot(t *testing.T) {
	idx := mustIndex(t, []models.Category{
		{ID: "", Title: "No id", Slug: "noid", Order: 2},
		{ID: "asr", Title: "Speech Recognition", Slug: "asr", Order: 1},
		{ID: "child", Title: "Child", Slug: "child", ParentID: ptr("")},
	})

	roots := idx.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "asr", roots[0].ID)
	assert.Equal(t, "", roots[1].ID)

	noID, ok := idx.ByID("")
	require.True(t, ok)
	children := idx.Children(noID)
	require.Len(t, children, 1, "roots must not appear as children of the empty id")
	assert.Equal(t, "child", children[0].ID)

	nav := idx.NavigationTree()
	require.Len(t, nav, 2)
	assert.Empty(t, nav[0].Children)
	require.Len(t, nav[1].Children, 1)
	assert.Equal(t, "/topics/noid/child", nav[1].Children[0].Href)
	assert.Equal(t, idx.Href(children[0]), nav[1].Children[0].Href)

	got, ok := idx.TopicMetadata([]string{"noid", "child"})
	require.True(t, ok)
	assert.Equal(t, "child", got.ID)
	_, ok = idx.TopicMetadata([]string{"noid", "asr"})
	assert.False(t, ok)
}

func TestEmptyIDSelfParentIsCycle(t *testing.T) {
	_, err := New([]models.Category{{ID: "", Slug: "noid", ParentID: ptr("")}})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestSearchItems(t *testing.T) {
	cats := sample()
	cats[0].Description = "Core <em>voice</em> concepts &amp; terms"
	idx := mustIndex(t, cats)

	items := idx.SearchItems()
	require.Len(t, items, len(cats))

	assert.Equal(t, "Core voice concepts & terms", items[0].Category.Description)
	assert.Equal(t, "", items[0].ParentTitle)
	assert.Equal(t, "/topics/foundations/speech-recognition", items[1].Href)
	assert.Equal(t, "Foundations", items[1].ParentTitle)
}

func TestEmptyTaxonomy(t *testing.T) {
	idx := mustIndex(t, nil)

	assert.Empty(t, idx.NavigationTree())
	assert.Empty(t, idx.AllTopicSlugs())
	assert.Empty(t, idx.SearchItems())
	_, ok := idx.TopicMetadata([]string{"a"})
	assert.False(t, ok)
}
