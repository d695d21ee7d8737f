package threat

// Severity buckets a risk score into an ordered tier.
type Severity string

const (
	SeveritySafe     Severity = "safe"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeveritySafe:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s is at or above min in the fixed
// safe < low < medium < high < critical order.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Flagged reports whether the tier counts as a detected threat
// for audit purposes.
func (s Severity) Flagged() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// SeverityFromScore maps a 0-100 risk score onto a tier. Breakpoints
// are 20/40/60/80, each boundary belonging to the higher tier.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 80:
		return SeverityCritical
	case score >= 60:
		return SeverityHigh
	case score >= 40:
		return SeverityMedium
	case score >= 20:
		return SeverityLow
	default:
		return SeveritySafe
	}
}

// Category tags a detection with the kind of adversarial content found.
type Category string

const (
	CategoryPromptInjection    Category = "prompt_injection"
	CategoryJailbreak          Category = "jailbreak"
	CategorySystemManipulation Category = "system_manipulation"
)

// Detection is the classifier output for a single prompt.
// It is immutable once produced.
type Detection struct {
	Score      float64        `json:"threat_score"`
	Severity   Severity       `json:"threat_level"`
	Flagged    bool           `json:"is_malicious"`
	Categories []Category     `json:"categories"`
	Confidence float64        `json:"confidence"`
	Details    map[string]any `json:"details,omitempty"`
}

func (d *Detection) HasCategory(c Category) bool {
	for _, have := range d.Categories {
		if have == c {
			return true
		}
	}
	return false
}
