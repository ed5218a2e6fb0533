package findings

// Category identifies the scanner family a finding belongs to.
type Category string

// Supported finding categories.
const (
	CategorySecurity   Category = "security"
	CategoryEfficiency Category = "efficiency"
	CategoryMinimalism Category = "minimalism"
)

// Finding describes one reported issue tied to a file and optionally a line.
// Identity is structural (file plus issue text); findings carry no assigned ID.
type Finding struct {
	File           string   `json:"file" yaml:"file"`
	Line           int      `json:"line,omitempty" yaml:"line,omitempty"`
	Issue          string   `json:"issue" yaml:"issue"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Category       Category `json:"category" yaml:"category"`
}

// VerifiedFalsePositive wraps a finding that a contextual rule re-labeled as
// likely harmless. The wrapped finding is retained verbatim; nothing is deleted.
type VerifiedFalsePositive struct {
	Finding Finding `json:"finding" yaml:"finding"`
	Reason  string  `json:"reason" yaml:"reason"`
}

// Bucket partitions pattern matches between active findings and verified false
// positives for one category. Every recorded match lands in exactly one list.
type Bucket struct {
	Active   []Finding
	Verified []VerifiedFalsePositive
}

// Record places the finding into the active list.
func (bucket *Bucket) Record(finding Finding) {
	bucket.Active = append(bucket.Active, finding)
}

// RecordVerified places the finding into the verified-false-positive list with
// the supplied justification.
func (bucket *Bucket) RecordVerified(finding Finding, reason string) {
	bucket.Verified = append(bucket.Verified, VerifiedFalsePositive{Finding: finding, Reason: reason})
}

// TotalMatches reports the combined size of both lists.
func (bucket Bucket) TotalMatches() int {
	return len(bucket.Active) + len(bucket.Verified)
}
