// Package youtube resolves video URLs into normalized metadata using the
// YouTube Data API v3, deriving duration, thumbnail and category.
package youtube

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

const videoIDLength = 11

var videoIDRe = regexp.MustCompile(`^.*(youtu.be\/|v\/|u\/\w\/|embed\/|watch\?v=|&v=)([^#&?]*).*`)

// ExtractVideoID returns the 11-character id of a YouTube URL such as
// https://www.youtube.com/watch?v=ID, https://youtu.be/ID or an embed link.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(m) < 3 || len(m[2]) != videoIDLength {
		return "", domain.Invalid("videoUrl", "Invalid YouTube URL")
	}
	return m[2], nil
}
