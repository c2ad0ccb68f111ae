package youtube

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Classifier assigns a category by scanning rules in order; the first rule
// with any keyword contained in the text wins. Matching is a
// case-insensitive substring test, so "learn" also selects "Learning".
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	category string
	keywords []string
}

// DefaultCategoryRules is the built-in ordered table.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{"Technology", []string{"programming", "code", "python", "javascript", "software", "tech", "computer", "ai", "machine learning"}},
		{"Business", []string{"business", "marketing", "finance", "entrepreneur", "startup", "money", "investment"}},
		{"Science", []string{"science", "physics", "math", "chemistry", "biology", "space", "experiment"}},
		{"Education", []string{"tutorial", "how to", "learn", "education", "course", "lesson", "teaching"}},
		{"Health", []string{"health", "fitness", "diet", "exercise", "nutrition", "workout", "yoga"}},
		{"Music", []string{"music", "song", "album", "artist", "concert", "guitar", "piano"}},
		{"Gaming", []string{"game", "gaming", "playthrough", "walkthrough", "minecraft", "fortnite"}},
	}
}

// NewClassifier compiles rules, keeping their order.
func NewClassifier(rules []CategoryRule) *Classifier {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{category: strings.TrimSpace(r.Category)}
		for _, kw := range r.Keywords {
			if k := strings.ToLower(strings.TrimSpace(kw)); k != "" {
				cr.keywords = append(cr.keywords, k)
			}
		}
		if cr.category != "" && len(cr.keywords) > 0 {
			c.rules = append(c.rules, cr)
		}
	}
	return c
}

// LoadClassifier reads an ordered rule table from a YAML file:
//
//	categories:
//	  - category: Technology
//	    keywords: [programming, code]
//
// An empty path returns the built-in table.
func LoadClassifier(path string) (*Classifier, error) {
	if path == "" {
		return NewClassifier(DefaultCategoryRules()), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=youtube.LoadClassifier: %w", err)
	}
	var doc struct {
		Categories []CategoryRule `yaml:"categories"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("op=youtube.LoadClassifier: %w", err)
	}
	c := NewClassifier(doc.Categories)
	if len(c.rules) == 0 {
		return nil, fmt.Errorf("op=youtube.LoadClassifier: %s defines no categories", path)
	}
	return c, nil
}

// Classify returns the category for a video's title and description, or
// domain.DefaultCategory when no rule matches.
func (c *Classifier) Classify(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, r := range c.rules {
		for _, k := range r.keywords {
			if strings.Contains(text, k) {
				return r.category
			}
		}
	}
	return domain.DefaultCategory
}
