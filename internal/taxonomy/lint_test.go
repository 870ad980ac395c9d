package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceaikb/internal/models"
)

func TestLintClean(t *testing.T) {
	assert.Empty(t, Lint(sample()))
}

func TestLint(t *testing.T) {
	cats := []models.Category{
		{ID: "asr", Title: "Speech Recognition", Slug: "asr"},
		{ID: "ctc", Title: "CTC", Slug: "ctc", ParentID: ptr("asr")},
		{ID: "ctc2", Title: "CTC again", Slug: "ctc", ParentID: ptr("asr")},
		{ID: "lost", Title: "Lost", Slug: "lost", ParentID: ptr("gone")},
		{ID: "caps", Title: "", Slug: "Beam_Search"},
		{ID: "bad", Title: "Bad", Slug: "a/b"},
		{ID: "asr", Title: "Speech Recognition v2", Slug: "asr-2"},
	}

	issues := Lint(cats)
	byID := make(map[string][]Issue)
	for _, i := range issues {
		byID[i.ID] = append(byID[i.ID], i)
	}

	require.Len(t, byID["asr"], 1)
	assert.Equal(t, SeverityWarning, byID["asr"][0].Severity)
	assert.Contains(t, byID["asr"][0].Message, "2 categories")

	require.Len(t, byID["ctc2"], 1)
	assert.Equal(t, SeverityError, byID["ctc2"][0].Severity)
	assert.Contains(t, byID["ctc2"][0].Message, `sibling "ctc"`)

	require.Len(t, byID["lost"], 1)
	assert.Contains(t, byID["lost"][0].Message, `parent "gone"`)

	require.Len(t, byID["caps"], 2)
	assert.Contains(t, byID["caps"][1].Message, `suggest "beamsearch"`)

	require.Len(t, byID["bad"], 1)
	assert.Equal(t, SeverityError, byID["bad"][0].Severity)

	assert.NotContains(t, byID, "ctc")
}

func TestLintMissingID(t *testing.T) {
	issues := Lint([]models.Category{
		{ID: "asr", Title: "Speech Recognition", Slug: "asr"},
		{ID: "", Title: "No id", Slug: "noid"},
	})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "error: <no id>: missing id", issues[0].String())
}

func TestIssueString(t *testing.T) {
	i := Issue{ID: "asr", Severity: SeverityError, Message: "boom"}
	assert.Equal(t, "error: asr: boom", i.String())
}
