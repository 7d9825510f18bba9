package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *Draft {
	return &Draft{
		Title:    "My Five Word Title",
		Body:     strings.Repeat("word ", 12),
		Category: "Technology",
		Tags:     []string{},
	}
}

func TestDraftValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *Draft)
		field    string
		message  string
		accepted bool
	}{
		{name: "valid draft", mutate: func(d *Draft) {}, accepted: true},
		{name: "missing title", mutate: func(d *Draft) { d.Title = "   " }, field: "title", message: "Title is required"},
		{name: "title too short", mutate: func(d *Draft) { d.Title = "abcd" }, field: "title", message: "Title must be at least 5 characters"},
		{name: "title at lower bound", mutate: func(d *Draft) { d.Title = "abcde" }, accepted: true},
		{name: "title at upper bound", mutate: func(d *Draft) { d.Title = strings.Repeat("t", 100) }, accepted: true},
		{name: "title too long", mutate: func(d *Draft) { d.Title = strings.Repeat("t", 101) }, field: "title", message: "Title must be less than 100 characters"},
		{name: "missing body", mutate: func(d *Draft) { d.Body = "" }, field: "body", message: "Content is required"},
		{name: "body too short", mutate: func(d *Draft) { d.Body = strings.Repeat("b", 49) }, field: "body", message: "Content must be at least 50 characters"},
		{name: "body at upper bound", mutate: func(d *Draft) { d.Body = strings.Repeat("b", 5000) }, accepted: true},
		{name: "body too long", mutate: func(d *Draft) { d.Body = strings.Repeat("b", 5001) }, field: "body", message: "Content must be less than 5000 characters"},
		{name: "missing category", mutate: func(d *Draft) { d.Category = "" }, field: "category", message: "Please select a category"},
		{name: "unknown category", mutate: func(d *Draft) { d.Category = "Gossip" }, field: "category", message: "Please select a category"},
		{name: "too many tags", mutate: func(d *Draft) {
			for i := 0; i < 11; i++ {
				d.Tags = append(d.Tags, fmt.Sprintf("tag%d", i))
			}
		}, field: "tags", message: "Maximum 10 tags allowed"},
		{name: "long tag", mutate: func(d *Draft) { d.Tags = []string{strings.Repeat("x", 21)} }, field: "tags", message: "Tag must be less than 20 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			err := d.Validate()
			if tt.accepted {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.message, verrs[tt.field])
		})
	}
}

func TestDraftTags(t *testing.T) {
	t.Run("tags are trimmed and case folded", func(t *testing.T) {
		d := validDraft()
		require.NoError(t, d.AddTag("  GoLang "))
		assert.Equal(t, []string{"golang"}, d.Tags)
	})

	t.Run("duplicate tag is rejected case-insensitively", func(t *testing.T) {
		d := validDraft()
		require.NoError(t, d.AddTag("go"))
		assert.ErrorIs(t, d.AddTag("GO"), ErrTagExists)
		assert.Equal(t, []string{"go"}, d.Tags)
	})

	t.Run("eleventh tag is rejected", func(t *testing.T) {
		d := validDraft()
		for i := 0; i < MaxTags; i++ {
			require.NoError(t, d.AddTag(fmt.Sprintf("t%d", i)))
		}
		before := append([]string(nil), d.Tags...)
		assert.ErrorIs(t, d.AddTag("another"), ErrTagLimit)
		assert.Equal(t, before, d.Tags)
	})

	t.Run("overlong and empty tags are rejected", func(t *testing.T) {
		d := validDraft()
		assert.ErrorIs(t, d.AddTag(strings.Repeat("a", 21)), ErrTagTooLong)
		assert.ErrorIs(t, d.AddTag("   "), ErrTagEmpty)
		assert.NoError(t, d.AddTag(strings.Repeat("a", 20)))
		assert.Len(t, d.Tags, 1)
	})

	t.Run("remove tag", func(t *testing.T) {
		d := validDraft()
		require.NoError(t, d.AddTag("a"))
		require.NoError(t, d.AddTag("b"))
		d.RemoveTag("a")
		assert.Equal(t, []string{"b"}, d.Tags)
	})
}

func TestDraftToPost(t *testing.T) {
	d := validDraft()
	d.Body = "  " + strings.Repeat("x", 60) + "  "
	d.Tags = []string{"go"}

	post := d.ToPost("creator-1", "https://img/1.png")

	assert.Equal(t, "My Five Word Title", post.Title)
	assert.Equal(t, strings.Repeat("x", 60), post.Body)
	assert.Equal(t, "creator-1", post.CreatorID)
	assert.Equal(t, "https://img/1.png", post.Image)
	assert.Equal(t, []string{}, post.Likes)
	assert.Equal(t, 1, post.WordCount)
	assert.Zero(t, post.Comments)

	d.Reset()
	assert.Empty(t, d.Title)
	assert.Empty(t, d.Tags)
	assert.Equal(t, []string{"go"}, post.Tags)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", TimeAgo(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", TimeAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", TimeAgo(now.Add(-48*time.Hour), now))
	assert.Contains(t, TimeAgo(now.Add(-30*24*time.Hour), now), "ago")
}
