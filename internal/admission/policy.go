package admission

import (
	"errors"
	"regexp"
	"strings"

	"tunetalk/internal/textutil"
)

// Reason explains an admission decision.
type Reason string

const (
	ReasonAdmitted  Reason = "admitted"
	ReasonMultiline Reason = "multiline"
	ReasonNoKeyword Reason = "no_keyword"
	ReasonEcho      Reason = "similar_to_reference"
)

// Decision is the outcome of evaluating one comment.
type Decision struct {
	Admitted bool
	Reason   Reason
}

// ErrNoKeywords is returned when a policy is built without any keyword.
var ErrNoKeywords = errors.New("admission: at least one keyword is required")

// Policy is an immutable admission rule set. It is safe for concurrent use.
type Policy struct {
	pattern   *regexp.Regexp
	threshold float64
}

// NewPolicy compiles keywords into a case-insensitive alternation. Keywords
// match anywhere in the text, including inside longer words. A threshold
// outside (0, 1] falls back to textutil.DefaultSimilarityThreshold.
func NewPolicy(keywords []string, threshold float64) (*Policy, error) {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(keyword))
	}
	if len(quoted) == 0 {
		return nil, ErrNoKeywords
	}
	pattern, err := regexp.Compile(`(?i)(` + strings.Join(quoted, "|") + `)`)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || threshold > 1 {
		threshold = textutil.DefaultSimilarityThreshold
	}
	return &Policy{pattern: pattern, threshold: threshold}, nil
}

// Admit reports whether text should be kept given the reference lines.
func (p *Policy) Admit(text string, reference []string) bool {
	return p.Evaluate(text, reference).Admitted
}

// Evaluate runs the shape, keyword and originality checks in order and
// returns the first failing reason.
func (p *Policy) Evaluate(text string, reference []string) Decision {
	trimmed := strings.TrimSpace(text)
	if strings.ContainsAny(trimmed, "\r\n") {
		return Decision{Reason: ReasonMultiline}
	}
	if !p.pattern.MatchString(trimmed) {
		return Decision{Reason: ReasonNoKeyword}
	}
	if textutil.IsSimilar(trimmed, reference, p.threshold) {
		return Decision{Reason: ReasonEcho}
	}
	return Decision{Admitted: true, Reason: ReasonAdmitted}
}

// Pattern returns the compiled keyword expression.
func (p *Policy) Pattern() string {
	return p.pattern.String()
}

// Threshold returns the similarity threshold in effect.
func (p *Policy) Threshold() float64 {
	return p.threshold
}
