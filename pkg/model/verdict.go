package model

// Status is the classification outcome of one rule against one instance.
type Status string

const (
	StatusOK     Status = "OK"
	StatusReview Status = "REVIEW"
	// StatusNA marks a rule that does not apply to the instance (log backups
	// when every database runs SIMPLE recovery). Excluded from tallies.
	StatusNA Status = "N/A"
)

// RuleVerdict pairs a status with a human-readable detail naming the
// offending entities or explaining the OK condition.
type RuleVerdict struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func OK(detail string) RuleVerdict     { return RuleVerdict{Status: StatusOK, Detail: detail} }
func Review(detail string) RuleVerdict { return RuleVerdict{Status: StatusReview, Detail: detail} }
func NA(detail string) RuleVerdict     { return RuleVerdict{Status: StatusNA, Detail: detail} }
