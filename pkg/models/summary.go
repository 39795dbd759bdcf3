package models

// KeyFields are the headline profile fields surfaced to callers.
type KeyFields struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
}

// Summary is the caller-facing progress snapshot of one conversation.
type Summary struct {
	CompletionPercentage float64              `json:"completion_percentage"`
	FilledCount          int                  `json:"filled_count"`
	Total                int                  `json:"total"`
	EmptyRequired        []BucketID           `json:"empty_required"`
	KeyFields            KeyFields            `json:"key_fields"`
	QualityScores        map[BucketID]float64 `json:"quality_scores"`
	Completed            bool                 `json:"completed"`
}
