package youtube

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yt "google.golang.org/api/youtube/v3"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultCategoryRules())
	tests := []struct {
		name, title, desc, want string
	}{
		{"single category", "Python for data analysis", "", "Technology"},
		{"description counts", "Episode 4", "We talk about startup funding", "Business"},
		{"case insensitive", "YOGA FLOW", "", "Health"},
		{"phrase keyword", "How to write a CV", "", "Education"},
		{"first in table order wins", "Learn guitar chords", "", "Education"},
		{"tech before music", "Music production software", "", "Technology"},
		{"no match", "Weekend vlog", "Cooking with friends", domain.DefaultCategory},
		{"inflected keyword", "Learning Spanish for beginners", "", "Education"},
		{"plural keyword", "Excel tutorials for accountants", "", "Education"},
		{"keyword inside a longer word", "Maintaining a garden", "", "Technology"},
		{"punctuation around keyword", "AI: the basics", "", "Technology"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.title, tt.desc))
		})
	}
}

func TestLoadClassifier(t *testing.T) {
	c, err := LoadClassifier("")
	require.NoError(t, err)
	assert.Equal(t, "Gaming", c.Classify("Minecraft survival", ""))

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - category: Careers
    keywords: [interview, "cv writing"]
  - category: Technology
    keywords: [python]
`), 0o600))

	c, err = LoadClassifier(path)
	require.NoError(t, err)
	assert.Equal(t, "Careers", c.Classify("Python interview questions", ""))
	assert.Equal(t, "Careers", c.Classify("Tips for CV writing", ""))
	assert.Equal(t, "Technology", c.Classify("Python basics", ""))
	assert.Equal(t, domain.DefaultCategory, c.Classify("Yoga", ""))
}

func TestLoadClassifier_Errors(t *testing.T) {
	_, err := LoadClassifier(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0o600))
	_, err = LoadClassifier(path)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: [: :"), 0o600))
	_, err = LoadClassifier(bad)
	assert.Error(t, err)
}

func TestBestThumbnail(t *testing.T) {
	maxres := &yt.Thumbnail{Url: "https://i.ytimg.com/vi/x/maxresdefault.jpg"}
	high := &yt.Thumbnail{Url: "https://i.ytimg.com/vi/x/hqdefault.jpg"}
	std := &yt.Thumbnail{Url: "https://i.ytimg.com/vi/x/sddefault.jpg"}

	assert.Equal(t, maxres.Url, BestThumbnail("x", &yt.ThumbnailDetails{Maxres: maxres, High: high, Standard: std}))
	assert.Equal(t, high.Url, BestThumbnail("x", &yt.ThumbnailDetails{High: high, Standard: std}))
	assert.Equal(t, std.Url, BestThumbnail("x", &yt.ThumbnailDetails{Standard: std, Default: &yt.Thumbnail{Url: "d"}}))
	assert.Equal(t, "https://img.youtube.com/vi/x/maxresdefault.jpg", BestThumbnail("x", &yt.ThumbnailDetails{Default: &yt.Thumbnail{Url: "d"}}))
	assert.Equal(t, "https://img.youtube.com/vi/x/maxresdefault.jpg", BestThumbnail("x", nil))
}
