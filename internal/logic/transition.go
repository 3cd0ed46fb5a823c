package logic

import (
	"fmt"

	"github.com/clanwars/cwl-stats/internal/models"
)

// CheckTransition verifies that next may follow prev for the same war.
// Verdicts only move forward: open -> secured -> final. A secured verdict
// can be repeated or confirmed by the matching final result; a final
// verdict never changes.
func CheckTransition(prev, next models.OutcomeEstimate) error {
	switch prev.Kind {
	case "", models.OutcomeOpen:
		return nil
	case models.OutcomeSecured:
		if next.IsDecided() && next.Result == prev.Result {
			return nil
		}
	case models.OutcomeFinal:
		if next.Kind == models.OutcomeFinal && next.Result == prev.Result {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s followed by %s %s", ErrVerdictReversed, prev.Kind, prev.Result, next.Kind, next.Result)
}
