// Package tokencount keeps prompts within the generative provider's input
// budget.
//
// It uses tiktoken-go with the offline BPE loader so no encoding files are
// downloaded at runtime. Gemini tokenizes differently; cl100k_base is a close
// enough approximation for budgeting. When the encoding cannot be loaded the
// counter falls back to an estimate of four characters per token.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is used for every model.
const DefaultEncoding = "cl100k_base"

const charsPerToken = 4

var loaderOnce sync.Once

// Counter counts and truncates text by tokens. It is safe for concurrent use.
type Counter struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter creates a counter for the named encoding ("" means DefaultEncoding).
func NewCounter(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{encoding: encoding}
}

func (c *Counter) encoder() *tiktoken.Tiktoken {
	c.once.Do(func() {
		loaderOnce.Do(func() { tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader()) })
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			slog.Warn("token encoding unavailable, estimating by characters",
				slog.String("encoding", c.encoding),
				slog.Any("error", err))
			return
		}
		c.enc = enc
	})
	return c.enc
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if enc := c.encoder(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}

// Truncate cuts text to at most maxTokens tokens and reports whether it did.
// maxTokens <= 0 disables the budget.
func (c *Counter) Truncate(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 || text == "" {
		return text, false
	}
	enc := c.encoder()
	if enc == nil {
		limit := maxTokens * charsPerToken
		if utf8.RuneCountInString(text) <= limit {
			return text, false
		}
		return string([]rune(text)[:limit]), true
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}
	// a cut can land inside a multi-byte rune
	return strings.ToValidUTF8(enc.Decode(tokens[:maxTokens]), ""), true
}
