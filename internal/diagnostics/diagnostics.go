// Package diagnostics carries the structured notes that planning and aggregation
// produce alongside their results.
package diagnostics

import "fmt"

// Kind classifies a diagnostic entry.
type Kind string

const (
	NoEligibleRecipe   Kind = "no_eligible_recipe"
	PreservedCompleted Kind = "preserved_completed"
	RebalanceConverged Kind = "rebalance_converged"
	RebalanceFailed    Kind = "rebalance_failed"
	MissingTarget      Kind = "missing_target"
	InvalidSettings    Kind = "invalid_settings"
	SkippedSlot        Kind = "skipped_slot"
)

// Entry is one observable anomaly or notable decision reported by a core computation.
type Entry struct {
	Kind     Kind   `json:"kind"`
	Date     string `json:"date,omitempty"`
	MealType string `json:"meal_type,omitempty"`
	Message  string `json:"message"`
}

func (e Entry) String() string {
	if e.Date == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	if e.MealType == "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Date, e.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", e.Kind, e.Date, e.MealType, e.Message)
}

// Log collects entries in the order they were produced.
type Log []Entry

// Addf appends an entry with a formatted message.
func (l *Log) Addf(kind Kind, date, mealType, format string, args ...interface{}) {
	*l = append(*l, Entry{
		Kind:     kind,
		Date:     date,
		MealType: mealType,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns how many entries have the given kind.
func (l Log) Count(kind Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Strings renders every entry.
func (l Log) Strings() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.String()
	}
	return out
}
