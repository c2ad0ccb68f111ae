// Package tika extracts plain text from uploaded CVs through an Apache Tika
// server (PUT /tika with Accept: text/plain).
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
	"github.com/fairyhunter13/careerboost-api/pkg/textx"
)

const defaultBaseURL = "http://localhost:9998"

// maxExtractedBytes caps the text read back from Tika.
const maxExtractedBytes = 4 << 20

// Client implements domain.TextExtractor.
type Client struct {
	baseURL    string
	timeout    time.Duration
	root       string
	httpClient *http.Client
	guard      *observability.Guard
}

// Option customizes a Client.
type Option func(*Client)

// WithRoot restricts readable files to dir. Defaults to os.TempDir, where
// uploads are spooled.
func WithRoot(dir string) Option {
	return func(c *Client) { c.root = filepath.Clean(dir) }
}

// New constructs a Tika client. A nil guard runs calls unguarded.
func New(baseURL string, timeout time.Duration, guard *observability.Guard, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if guard == nil {
		guard = observability.NewGuard("tika", nil)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		root:       filepath.Clean(os.TempDir()),
		httpClient: observability.NewHTTPClient("tika"),
		guard:      guard,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ExtractPath uploads the file at path and returns its text with control
// characters removed and whitespace collapsed.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	openPath, err := c.confine(path)
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	body, err := os.ReadFile(openPath)
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}

	var text string
	err = c.guard.Do(ctx, "extract", c.timeout, func(callCtx context.Context) error {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "text/plain")
		if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return domain.NewUpstreamError("tika", "extract", resp.StatusCode, domain.ErrUpstream,
				fmt.Sprintf("tika status %d", resp.StatusCode), nil)
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxExtractedBytes))
		if err != nil {
			return err
		}
		text = textx.CollapseWhitespace(textx.SanitizeText(string(b)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	return text, nil
}

// Ping reports whether the Tika server answers GET /version.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return fmt.Errorf("op=tika.Ping: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("op=tika.Ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("op=tika.Ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) confine(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(c.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: disallowed path %s", domain.ErrInvalidArgument, abs)
	}
	return filepath.Join(c.root, rel), nil
}

func contentTypeFromExt(ext string) string {
	switch ext = strings.ToLower(ext); ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case "":
		return ""
	default:
		return mime.TypeByExtension(ext)
	}
}
