package models

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusNotFound = "not_found"
	StatusSkipped  = "skipped"
)

// Outcome is the result of one step for one target.
type Outcome struct {
	Target   string `json:"target"`
	Endpoint string `json:"endpoint,omitempty"`
	Step     string `json:"step,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type Report struct {
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	NotFound int       `json:"notFound"`
	Outcomes []Outcome `json:"outcomes"`
}

func (r *Report) Add(o Outcome) {
	switch o.Status {
	case StatusSent:
		r.Sent++
	case StatusFailed:
		r.Failed++
	case StatusNotFound:
		r.NotFound++
	}
	r.Outcomes = append(r.Outcomes, o)
}
