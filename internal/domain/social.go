package domain

import (
	"strings"
	"time"
)

// Priority buckets a social post by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ReportType categorizes what a social post is communicating.
type ReportType string

const (
	TypeNeed    ReportType = "need"
	TypeOffer   ReportType = "offer"
	TypeAlert   ReportType = "alert"
	TypeRequest ReportType = "request"
	TypeUpdate  ReportType = "update"
	TypeGeneral ReportType = "general"
)

// Source records where a social post came from.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// Author identifies who published a social post.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// SocialPost is a normalized, classified social media report. Posts are
// immutable once classified.
type SocialPost struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	Timestamp time.Time  `json:"timestamp"`
	Source    Source     `json:"source"`
	Priority  Priority   `json:"priority"`
	Type      ReportType `json:"type"`
	Keywords  []string   `json:"keywords"`
}

// RawSocialPost is an unclassified post as returned by a feed provider or
// the mock generator.
type RawSocialPost struct {
	ID        string
	Text      string
	AuthorID  string
	Username  string
	Name      string
	CreatedAt time.Time
}

var (
	criticalTerms = []string{"sos", "urgent", "immediate", "trapped", "emergency"}
	highTerms     = []string{"need", "help", "assistance", "critical"}
	mediumTerms   = []string{"volunteer", "shelter", "food", "water"}

	// keywordVocabulary is the fixed tag set matched against post content.
	keywordVocabulary = []string{
		"flood", "earthquake", "fire", "shelter", "food",
		"water", "medical", "rescue", "volunteer",
	}
)

// ClassifyPriority assigns an urgency tier from the post content. Tiers are
// checked in order; the first tier with a matching term wins.
func ClassifyPriority(content string) Priority {
	lower := strings.ToLower(content)

	switch {
	case containsAny(lower, criticalTerms):
		return PriorityCritical
	case containsAny(lower, highTerms):
		return PriorityHigh
	case containsAny(lower, mediumTerms):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ClassifyType assigns a report type from the post content, first match wins.
func ClassifyType(content string) ReportType {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(lower, "need") || strings.Contains(lower, "help"):
		return TypeNeed
	case strings.Contains(lower, "shelter") || strings.Contains(lower, "food") || strings.Contains(lower, "water"):
		return TypeOffer
	case strings.Contains(lower, "sos") || strings.Contains(lower, "emergency"):
		return TypeAlert
	case strings.Contains(lower, "volunteer") || strings.Contains(lower, "assist"):
		return TypeRequest
	case strings.Contains(lower, "restored") || strings.Contains(lower, "recovery"):
		return TypeUpdate
	default:
		return TypeGeneral
	}
}

// ExtractKeywords returns the vocabulary terms present in the content, in
// vocabulary order.
func ExtractKeywords(content string) []string {
	lower := strings.ToLower(content)

	keywords := []string{}
	for _, kw := range keywordVocabulary {
		if strings.Contains(lower, kw) {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// NormalizeSocialPost classifies a raw post. Classification depends only on
// the text, never on the source.
func NormalizeSocialPost(raw RawSocialPost, source Source) SocialPost {
	return SocialPost{
		ID:      raw.ID,
		Content: raw.Text,
		Author: Author{
			ID:       raw.AuthorID,
			Username: raw.Username,
			Name:     raw.Name,
		},
		Timestamp: raw.CreatedAt,
		Source:    source,
		Priority:  ClassifyPriority(raw.Text),
		Type:      ClassifyType(raw.Text),
		Keywords:  ExtractKeywords(raw.Text),
	}
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
