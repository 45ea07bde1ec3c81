package models

import "time"

// Assignment is a single graded (or gradable) item within a course. Score and
// Points keep the upstream display strings; PointsEarned/PointsPossible hold
// the parsed numeric values and take precedence whenever both are present.
type Assignment struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Date           string   `json:"date,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	Score          string   `json:"score"`
	ScoreType      string   `json:"score_type,omitempty"`
	Points         string   `json:"points"`
	PointsEarned   *float64 `json:"points_earned,omitempty"`
	PointsPossible *float64 `json:"points_possible,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Description    string   `json:"description,omitempty"`
	IsMissing      bool     `json:"is_missing"`
	IsHypothetical bool     `json:"is_hypothetical,omitempty"`
	// ID is only set for hypothetical assignments so they can be removed.
	ID string `json:"id,omitempty"`
}

// Category is a weighted grading bucket within a course.
type Category struct {
	Name   string   `json:"name"`
	Weight float64  `json:"weight"`
	Score  *float64 `json:"score,omitempty"`
	Points string   `json:"points,omitempty"`
}

// Course holds the canonical view of one class for a reporting period.
//
// ID is synthesized positionally ("course-0", "course-1", ...) and is only
// stable within a single parse of a single payload. A course removed
// mid-list shifts every subsequent id, which corrupts change detection and
// override correlation for those courses. Known limitation carried over
// from the upstream product.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Period      int          `json:"period"`
	Teacher     string       `json:"teacher,omitempty"`
	Room        string       `json:"room,omitempty"`
	Grade       *float64     `json:"grade"`
	LetterGrade string       `json:"letter_grade"`
	Assignments []Assignment `json:"assignments"`
	// Categories is nil when the course grades by straight points instead
	// of weighted categories.
	Categories []Category `json:"categories,omitempty"`
}

// ReportingPeriod names a grading term.
type ReportingPeriod struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Index     int    `json:"index"`
}

// StudentInfo is the optional profile block attached to a gradebook.
type StudentInfo struct {
	Name      string `json:"name,omitempty"`
	PermID    string `json:"perm_id,omitempty"`
	Grade     string `json:"grade,omitempty"`
	School    string `json:"school,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Counselor string `json:"counselor,omitempty"`
}

// Gradebook is the full set of courses plus term metadata for one
// reporting period. Course order follows the upstream payload.
type Gradebook struct {
	Courses          []*Course         `json:"courses"`
	ReportingPeriod  ReportingPeriod   `json:"reporting_period"`
	ReportingPeriods []ReportingPeriod `json:"reporting_periods,omitempty"`
	StudentInfo      *StudentInfo      `json:"student_info,omitempty"`
}

// CourseByID returns the course with the given id, or nil.
func (g *Gradebook) CourseByID(id string) *Course {
	if g == nil {
		return nil
	}
	for _, course := range g.Courses {
		if course != nil && course.ID == id {
			return course
		}
	}
	return nil
}

// ScoreOverride replaces the earned/possible points of one assignment.
type ScoreOverride struct {
	PointsEarned   float64 `json:"points_earned"`
	PointsPossible float64 `json:"points_possible"`
}

// HypotheticalAssignment is a synthetic assignment added in what-if mode.
type HypotheticalAssignment struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	PointsEarned   float64 `json:"points_earned"`
	PointsPossible float64 `json:"points_possible"`
}

// CourseOverrides collects the simulated edits for one course.
// ModifiedAssignments is keyed by assignment index in the base course.
type CourseOverrides struct {
	ModifiedAssignments map[int]ScoreOverride    `json:"modified_assignments,omitempty"`
	AddedAssignments    []HypotheticalAssignment `json:"added_assignments,omitempty"`
}

// Empty reports whether the override entry carries no edits.
func (o *CourseOverrides) Empty() bool {
	return o == nil || (len(o.ModifiedAssignments) == 0 && len(o.AddedAssignments) == 0)
}

// GradeChange records a per-course delta between two gradebook snapshots.
type GradeChange struct {
	CourseID       string    `json:"course_id"`
	CourseName     string    `json:"course_name"`
	PreviousGrade  *float64  `json:"previous_grade"`
	NewGrade       *float64  `json:"new_grade"`
	PreviousLetter string    `json:"previous_letter"`
	NewLetter      string    `json:"new_letter"`
	Timestamp      time.Time `json:"timestamp"`
}

// Snapshot is the persisted last-known state for a student. Credentials
// travel sealed (never in the clear) and are excluded from JSON views.
type Snapshot struct {
	Username          string     `json:"username"`
	Gradebook         *Gradebook `json:"gradebook"`
	LastUpdated       time.Time  `json:"last_updated"`
	SealedCredentials string     `json:"-"`
}
