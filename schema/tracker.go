package schema

// TrackerFields names the custom fields read from a tracker issue export.
// Names match case-insensitively. An empty name disables that field.
type TrackerFields struct {
	StartDate string `mapstructure:"start-date-field"`
	EndDate   string `mapstructure:"end-date-field"`
	Estimate  string `mapstructure:"estimate-field"`
	QA        string `mapstructure:"qa-field"`
	SP        string `mapstructure:"sp-field"`
	Release   string `mapstructure:"release-field"`
	Type      string `mapstructure:"type-field"`
	Status    string `mapstructure:"status-field"`
	Assignee  string `mapstructure:"assignee-field"`
}

// DefaultTrackerFields returns the field names of a stock tracker project.
func DefaultTrackerFields() TrackerFields {
	return TrackerFields{
		StartDate: "Start date",
		EndDate:   "Due date",
		Estimate:  "Estimation",
		QA:        "QA",
		SP:        "SP",
		Release:   "Release",
		Type:      "Type",
		Status:    "State",
		Assignee:  "Assignee",
	}
}
