package punch

import "encoding/json"

// Report aggregates the outcome of one run.
type Report struct {
	RunID     string   `json:"run_id"`
	Date      string   `json:"date"` // YYYY-MM-DD, local
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// NewReport builds a Report from per-entry results, counting outcomes.
func NewReport(runID, date string, results []Result) Report {
	rep := Report{RunID: runID, Date: date, Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
	}
	return rep
}

// MarshalReport serialises a Report to JSON.
func MarshalReport(r *Report) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalReport deserialises a Report from JSON.
func UnmarshalReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
