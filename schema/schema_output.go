package schema

// Day is one emitted day entry of a quarter.
type Day struct {
	Date   string   `json:"date"`
	Load   float64  `json:"load"`
	Tasks  []string `json:"tasks"`
	QALoad *float64 `json:"qaLoad,omitempty"`
	SPLoad *float64 `json:"spLoad,omitempty"`
}

// Period is a calendar quarter of day entries for one assignee.
type Period struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
	Days  []Day  `json:"days"`
}

// Assignee groups the quarters of one person.
type Assignee struct {
	Name    string   `json:"name"`
	Periods []Period `json:"periods"`
}

// Release is a named release and its representative date.
type Release struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// WorkloadResponse is the final result of the pipeline.
type WorkloadResponse struct {
	Assignees     []Assignee         `json:"assignees"`
	Releases      []Release          `json:"releases"`
	TaskTitles    map[string]*string `json:"taskTitles,omitempty"`
	TaskTypes     map[string]*string `json:"taskTypes,omitempty"`
	TaskEstimates map[string]float64 `json:"taskEstimates,omitempty"`
}

// EmptyResponse returns a response with no assignees and no releases.
func EmptyResponse() *WorkloadResponse {
	return &WorkloadResponse{
		Assignees: []Assignee{},
		Releases:  []Release{},
	}
}

// DayRow is one flattened (assignee, quarter, day) entry used by tabular writers.
type DayRow struct {
	Assignee string
	Quarter  string
	Date     string
	Load     float64
	QALoad   float64
	SPLoad   float64
	Tasks    []string
}

// Flatten returns every day entry of the response in emission order.
func (r *WorkloadResponse) Flatten() []DayRow {
	var rows []DayRow
	for _, a := range r.Assignees {
		for _, p := range a.Periods {
			for _, d := range p.Days {
				row := DayRow{
					Assignee: a.Name,
					Quarter:  p.Name,
					Date:     d.Date,
					Load:     d.Load,
					Tasks:    d.Tasks,
				}
				if d.QALoad != nil {
					row.QALoad = *d.QALoad
				}
				if d.SPLoad != nil {
					row.SPLoad = *d.SPLoad
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// AssigneeSummary is the per-quarter total of one assignee, used for tables.
type AssigneeSummary struct {
	Assignee string  `json:"assignee"`
	Quarter  string  `json:"quarter"`
	Days     int     `json:"days"`
	Tasks    int     `json:"tasks"`
	Load     float64 `json:"load"`
	QALoad   float64 `json:"qa_load"`
	SPLoad   float64 `json:"sp_load"`
	PeakLoad float64 `json:"peak_load"`
}

// Summarize aggregates each assignee's quarter into a single summary row.
func (r *WorkloadResponse) Summarize() []AssigneeSummary {
	var out []AssigneeSummary
	for _, a := range r.Assignees {
		for _, p := range a.Periods {
			s := AssigneeSummary{Assignee: a.Name, Quarter: p.Name, Days: len(p.Days)}
			seen := make(map[string]struct{})
			for _, d := range p.Days {
				s.Load += d.Load
				if d.QALoad != nil {
					s.QALoad += *d.QALoad
				}
				if d.SPLoad != nil {
					s.SPLoad += *d.SPLoad
				}
				if d.Load > s.PeakLoad {
					s.PeakLoad = d.Load
				}
				for _, t := range d.Tasks {
					seen[t] = struct{}{}
				}
			}
			s.Tasks = len(seen)
			out = append(out, s)
		}
	}
	return out
}

// Filter returns a copy of the response restricted to one assignee and/or quarter.
// Empty arguments keep everything. Metadata maps and releases are shared.
func (r *WorkloadResponse) Filter(assignee, quarter string) *WorkloadResponse {
	if assignee == "" && quarter == "" {
		return r
	}
	out := &WorkloadResponse{
		Assignees:     []Assignee{},
		Releases:      r.Releases,
		TaskTitles:    r.TaskTitles,
		TaskTypes:     r.TaskTypes,
		TaskEstimates: r.TaskEstimates,
	}
	for _, a := range r.Assignees {
		if assignee != "" && a.Name != assignee {
			continue
		}
		kept := Assignee{Name: a.Name, Periods: []Period{}}
		for _, p := range a.Periods {
			if quarter != "" && p.Name != quarter {
				continue
			}
			kept.Periods = append(kept.Periods, p)
		}
		if len(kept.Periods) > 0 {
			out.Assignees = append(out.Assignees, kept)
		}
	}
	return out
}
