package runner

import (
	"fmt"
	"strings"
	"time"
)

// Report is the aggregate view of one completed run.
type Report struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Records     []Record  `json:"records"`
	Total       int       `json:"total"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	SuccessRate int       `json:"success_rate"`
}

// Render produces the textual summary. Output depends only on the
// record sequence and counts, so rendering is deterministic.
func (rep Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "extension diagnostics: %d total, %d passed, %d failed (%d%% success)\n",
		rep.Total, rep.Passed, rep.Failed, rep.SuccessRate)
	for _, rec := range rep.Records {
		if rec.Status == StatusPass {
			fmt.Fprintf(&b, "[PASS] %s\n", rec.Name)
			continue
		}
		fmt.Fprintf(&b, "[FAIL] %s - %s\n", rec.Name, rec.Message)
	}
	return b.String()
}
