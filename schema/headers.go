package schema

// Semantic fields resolved from the header row.
const (
	IssueIDField       Field = "issue_id"
	TitleField         Field = "title"
	TypeField          Field = "type"
	AssigneeField      Field = "assignee"
	OwnEstimateField   Field = "own_estimate"
	TotalEstimateField Field = "total_estimate"
	PeriodField        Field = "period"
	StatusField        Field = "status"
	CreatedField       Field = "created"
	UpdatedField       Field = "updated"
	ReleaseField       Field = "release"
	QAField            Field = "qa"
	SPField            Field = "sp"
)

// NoColumn marks a field that has neither a header match nor a positional fallback.
const NoColumn = -1

// HeaderGroup maps a semantic field to its lowercase, whitespace-free keywords.
type HeaderGroup struct {
	Field    Field
	Keywords []string
	Fallback int // Positional column used when no header matches, or NoColumn
}

// HeaderGroups lists the recognized keyword groups for the issues sheet.
// "issue type" keeps its space and therefore never matches a normalized header.
var HeaderGroups = []HeaderGroup{
	{Field: IssueIDField, Keywords: []string{"issueid", "issue", "id"}, Fallback: 0},
	{Field: TitleField, Keywords: []string{"заголовок", "title", "summary", "name"}, Fallback: NoColumn},
	{Field: TypeField, Keywords: []string{"тип", "type", "issuetype", "issue type"}, Fallback: NoColumn},
	{Field: AssigneeField, Keywords: []string{"assignee", "owner", "исполнитель"}, Fallback: 1},
	{Field: OwnEstimateField, Keywords: []string{"оценка", "ownestimate", "estimate"}, Fallback: 2},
	{Field: TotalEstimateField, Keywords: []string{"общаяоценка(сподзадачами)", "общаяоценка", "timeoriginalestimate", "originalestimate"}, Fallback: NoColumn},
	{Field: PeriodField, Keywords: []string{"period"}, Fallback: 3},
	{Field: StatusField, Keywords: []string{"status"}, Fallback: 4},
	{Field: CreatedField, Keywords: []string{"created"}, Fallback: 5},
	{Field: UpdatedField, Keywords: []string{"updated"}, Fallback: 6},
	{Field: ReleaseField, Keywords: []string{"release"}, Fallback: 7},
	{Field: QAField, Keywords: []string{"qa"}, Fallback: 8},
	{Field: SPField, Keywords: []string{"sp"}, Fallback: 9},
}

// HeaderIndex holds the resolved header position of each field, NoColumn if unmatched.
type HeaderIndex map[Field]int

// Resolved reports whether the field matched a header.
func (h HeaderIndex) Resolved(field Field) bool {
	idx, ok := h[field]
	return ok && idx >= 0
}

// Pick returns the header position of the field, or the fallback when unresolved.
func (h HeaderIndex) Pick(field Field, fallback int) int {
	if h.Resolved(field) {
		return h[field]
	}
	return fallback
}
