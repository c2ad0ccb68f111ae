package youtube

import (
	"fmt"

	yt "google.golang.org/api/youtube/v3"
)

// BestThumbnail picks maxres, then high, then standard, and otherwise builds
// the public maxresdefault URL for the video id, so a thumbnail always exists.
func BestThumbnail(videoID string, t *yt.ThumbnailDetails) string {
	if t != nil {
		for _, th := range []*yt.Thumbnail{t.Maxres, t.High, t.Standard} {
			if th != nil && th.Url != "" {
				return th.Url
			}
		}
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
