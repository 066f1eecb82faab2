package models

// ArticleRecord is one article row in a collection. ID is assigned by the
// store and treated as opaque text.
type ArticleRecord struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Summary *string `json:"summary,omitempty"`
}

// SummaryKind tags a SummaryResult.
type SummaryKind int

const (
	// SummaryUnset is the zero value: no verdict has been produced.
	SummaryUnset SummaryKind = iota
	// SummaryText is a real summary produced by the model.
	SummaryText
	// SummaryNotRelevant means the model answered with the relevance
	// sentinel: the content is outside the subject domain.
	SummaryNotRelevant
)

// String returns the lowercase name of the kind.
func (k SummaryKind) String() string {
	switch k {
	case SummaryUnset:
		return "unset"
	case SummaryText:
		return "text"
	case SummaryNotRelevant:
		return "not_relevant"
	default:
		return "unknown"
	}
}

// SummaryResult is the verdict of the summarization client for one article.
// For SummaryText, Raw holds the trimmed model answer. For SummaryNotRelevant
// it holds the configured sentinel, whatever quoting the model used.
type SummaryResult struct {
	Kind SummaryKind
	Raw  string
}

// TextSummary builds a SummaryText result.
func TextSummary(text string) SummaryResult {
	return SummaryResult{Kind: SummaryText, Raw: text}
}

// NotRelevantSummary builds a SummaryNotRelevant result carrying sentinel.
func NotRelevantSummary(sentinel string) SummaryResult {
	return SummaryResult{Kind: SummaryNotRelevant, Raw: sentinel}
}

// IsRelevant reports whether the result holds an actual summary.
func (r SummaryResult) IsRelevant() bool {
	return r.Kind == SummaryText
}
