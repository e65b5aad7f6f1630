package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	var l Log
	l.Addf(InvalidSettings, "", "", "meals_per_day=%d", 9)
	l.Addf(RebalanceFailed, "2025-01-27", "", "off by %d", 300)
	l.Addf(NoEligibleRecipe, "2025-01-27", "dinner", "nothing")

	assert.Equal(t, 1, l.Count(RebalanceFailed))
	assert.Zero(t, l.Count(PreservedCompleted))
	assert.Equal(t, []string{
		"[invalid_settings] meals_per_day=9",
		"[rebalance_failed] 2025-01-27: off by 300",
		"[no_eligible_recipe] 2025-01-27 dinner: nothing",
	}, l.Strings())
}
