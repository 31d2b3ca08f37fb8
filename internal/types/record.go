package types

// ParsedRecord is the structured syllabus extracted from a document.
// Every leaf is nullable: absent information is null in the JSON output,
// never an omitted key, so consumers do not branch on key presence.
type ParsedRecord struct {
	CourseInfo    CourseInfo      `json:"courseInfo"`
	Schedule      []ScheduleEntry `json:"schedule"`
	Assignments   []Assignment    `json:"assignments"`
	GradingPolicy GradingPolicy   `json:"gradingPolicy"`
	Readings      []Reading       `json:"readings"`
	Policies      Policies        `json:"policies"`
	Contacts      []Contact       `json:"contacts"`
}

// CourseInfo groups course identity fields.
type CourseInfo struct {
	CourseName   *string `json:"courseName"`
	CourseCode   *string `json:"courseCode"`
	Department   *string `json:"department"`
	Term         *string `json:"term"`
	Credits      *string `json:"credits"`
	MeetingTimes *string `json:"meetingTimes"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
}

// ScheduleEntry is a single row of the course schedule.
type ScheduleEntry struct {
	Date     *string `json:"date"`
	Topic    *string `json:"topic"`
	Readings *string `json:"readings"`
	Notes    *string `json:"notes"`
}

// Assignment describes one graded deliverable.
type Assignment struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"` // homework, project, exam, quiz, paper, ...
	DueDate     *string  `json:"dueDate"`
	Weight      *float64 `json:"weight"` // percent of final grade
	Description *string  `json:"description"`
}

// GradeComponent is one line of the grading breakdown.
type GradeComponent struct {
	Component *string  `json:"component"`
	Weight    *float64 `json:"weight"`
}

// GradingPolicy groups the grading breakdown, letter scale, and late policy.
type GradingPolicy struct {
	Breakdown  []GradeComponent  `json:"breakdown"`
	Scale      map[string]string `json:"scale"` // letter grade -> range, e.g. "A": "90-100"
	LatePolicy *string           `json:"latePolicy"`
}

// Reading is a required or recommended text.
type Reading struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Required *bool   `json:"required"`
	Notes    *string `json:"notes"`
}

// Policies groups course policy statements.
type Policies struct {
	Attendance        *string `json:"attendance"`
	LateWork          *string `json:"lateWork"`
	AcademicIntegrity *string `json:"academicIntegrity"`
	Accommodations    *string `json:"accommodations"`
	Communication     *string `json:"communication"`
}

// Contact is an instructor or TA contact entry.
type Contact struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	Email       *string `json:"email"`
	OfficeHours *string `json:"officeHours"`
	Location    *string `json:"location"`
}

// NullRecord returns the fully-null ParsedRecord skeleton substituted when
// the model response cannot be parsed. All pointer leaves are nil and all
// lists are nil, which marshal to null for every schema key.
func NullRecord() *ParsedRecord {
	return &ParsedRecord{}
}

// Leaf is one countable schema field together with whether it was populated.
type Leaf struct {
	Name    string
	Present bool
}

// Leaves walks the record and returns every schema leaf in a fixed order.
// Scalar groups contribute one leaf per field; repeated groups (schedule,
// assignments, readings, contacts, grading breakdown) and the grade scale
// contribute a single presence leaf each.
func (r *ParsedRecord) Leaves() []Leaf {
	strPresent := func(s *string) bool { return s != nil && *s != "" }
	return []Leaf{
		{"courseInfo.courseName", strPresent(r.CourseInfo.CourseName)},
		{"courseInfo.courseCode", strPresent(r.CourseInfo.CourseCode)},
		{"courseInfo.department", strPresent(r.CourseInfo.Department)},
		{"courseInfo.term", strPresent(r.CourseInfo.Term)},
		{"courseInfo.credits", strPresent(r.CourseInfo.Credits)},
		{"courseInfo.meetingTimes", strPresent(r.CourseInfo.MeetingTimes)},
		{"courseInfo.location", strPresent(r.CourseInfo.Location)},
		{"courseInfo.description", strPresent(r.CourseInfo.Description)},
		{"schedule", len(r.Schedule) > 0},
		{"assignments", len(r.Assignments) > 0},
		{"gradingPolicy.breakdown", len(r.GradingPolicy.Breakdown) > 0},
		{"gradingPolicy.scale", len(r.GradingPolicy.Scale) > 0},
		{"gradingPolicy.latePolicy", strPresent(r.GradingPolicy.LatePolicy)},
		{"readings", len(r.Readings) > 0},
		{"policies.attendance", strPresent(r.Policies.Attendance)},
		{"policies.lateWork", strPresent(r.Policies.LateWork)},
		{"policies.academicIntegrity", strPresent(r.Policies.AcademicIntegrity)},
		{"policies.accommodations", strPresent(r.Policies.Accommodations)},
		{"policies.communication", strPresent(r.Policies.Communication)},
		{"contacts", len(r.Contacts) > 0},
	}
}
