package telemetry

import (
	"github.com/bytedance/sonic"

	fterrors "github.com/vnykmshr/fractile/pkg/common/errors"
)

// SummaryJSON serializes the tracker's Summary for machine-readable
// consumers. A disabled or empty tracker returns an error rather than an
// empty document.
func (t *Tracker) SummaryJSON() ([]byte, error) {
	s, ok := t.Summary()
	if !ok {
		return nil, fterrors.NewValidationError("telemetry", "tracker", t.Count(), "no data to summarize").
			WithHint("enable instrumentation and record at least one task")
	}
	return sonic.Marshal(s)
}
