package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

const (
	providerYouTube = "youtube"
	opVideosList    = "videos.list"

	msgQuota    = "YouTube API quota exceeded. Please try again later."
	msgNotFound = "Video not found. Please check the YouTube URL."
	msgConfig   = "YouTube API configuration error. Please contact support."
)

var videoParts = []string{"snippet", "contentDetails", "statistics"}

// Client implements domain.VideoProvider on top of the generated YouTube
// Data API service.
type Client struct {
	svc        *yt.Service
	apiKey     string
	timeout    time.Duration
	guard      *observability.Guard
	classifier *Classifier
}

// NewClient builds the service with a traced HTTP client. cfg.YouTubeBaseURL
// overrides the API endpoint.
func NewClient(ctx context.Context, cfg config.Config, guard *observability.Guard, classifier *Classifier) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(observability.NewHTTPClient(providerYouTube))}
	if cfg.YouTubeBaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.YouTubeBaseURL))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("op=youtube.NewClient: %w", err)
	}
	if guard == nil {
		guard = observability.NewGuard(providerYouTube, nil)
	}
	if classifier == nil {
		classifier = NewClassifier(DefaultCategoryRules())
	}
	return &Client{svc: svc, apiKey: cfg.YouTubeAPIKey, timeout: cfg.YouTubeTimeout, guard: guard, classifier: classifier}, nil
}

// Video fetches one video and resolves it to metadata.
func (c *Client) Video(ctx context.Context, id string) (domain.VideoMetadata, error) {
	var meta domain.VideoMetadata
	err := c.guard.Do(ctx, opVideosList, c.timeout, func(ctx context.Context) error {
		// the API key travels as a query parameter because a custom HTTP client
		// disables option.WithAPIKey
		resp, err := c.svc.Videos.List(videoParts).Id(id).Context(ctx).Do(googleapi.QueryParameter("key", c.apiKey))
		if err != nil {
			return mapError(err)
		}
		if len(resp.Items) == 0 {
			return domain.NewUpstreamError(providerYouTube, opVideosList, http.StatusNotFound, domain.ErrUpstreamNotFound, msgNotFound, nil)
		}
		meta = Resolve(resp.Items[0], c.classifier)
		return nil
	})
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("op=youtube.Client.Video: %w", err)
	}
	if meta.ID == "" {
		meta.ID = id
	}
	return meta, nil
}

// Resolve normalizes a provider video record. Missing parts yield zero values;
// the thumbnail is always set.
func Resolve(v *yt.Video, classifier *Classifier) domain.VideoMetadata {
	meta := domain.VideoMetadata{ID: v.Id}
	if s := v.Snippet; s != nil {
		meta.Title = s.Title
		meta.Description = s.Description
		meta.Channel = s.ChannelTitle
		meta.Tags = s.Tags
		if ts, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			meta.PublishedAt = ts
		}
		meta.ThumbnailURL = BestThumbnail(v.Id, s.Thumbnails)
	} else {
		meta.ThumbnailURL = BestThumbnail(v.Id, nil)
	}
	if cd := v.ContentDetails; cd != nil {
		mins, ok := ParseDurationMinutes(cd.Duration)
		if !ok && cd.Duration != "" {
			slog.Warn("unrecognized video duration", slog.String("video_id", v.Id), slog.String("duration", cd.Duration))
		}
		meta.DurationMinutes = mins
	}
	if st := v.Statistics; st != nil {
		meta.ViewCount = st.ViewCount
		meta.LikeCount = st.LikeCount
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if classifier != nil {
		meta.Category = classifier.Classify(meta.Title, meta.Description)
	}
	return meta
}

func mapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusForbidden:
		return domain.NewUpstreamError(providerYouTube, opVideosList, gerr.Code, domain.ErrUpstreamRateLimit, msgQuota, err)
	case http.StatusNotFound:
		return domain.NewUpstreamError(providerYouTube, opVideosList, gerr.Code, domain.ErrUpstreamNotFound, msgNotFound, err)
	case http.StatusBadRequest, http.StatusUnauthorized:
		return domain.NewUpstreamError(providerYouTube, opVideosList, gerr.Code, domain.ErrUpstream, msgConfig, err)
	default:
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return domain.NewUpstreamError(providerYouTube, opVideosList, gerr.Code, domain.ErrUpstream, "YouTube API error: "+msg, err)
	}
}
