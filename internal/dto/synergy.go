package dto

import (
	"bytes"
	"encoding/json"
)

// NodeList absorbs the upstream habit of encoding a one-element collection
// as a bare object instead of an array. XML decoding appends repeated
// elements as usual; JSON decoding accepts either form.
type NodeList[T any] []T

// UnmarshalJSON accepts both a JSON array and a single object.
func (l *NodeList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = NodeList[T]{item}
	return nil
}

// Gradebook mirrors the Synergy gradebook payload. Every leaf arrives as a
// string attribute; the parser owns all coercion and fallback rules.
type Gradebook struct {
	Type             string               `xml:"Type,attr" json:"Type,omitempty"`
	ErrorMessage     string               `xml:"ErrorMessage,attr" json:"ErrorMessage,omitempty"`
	ReportingPeriod  ReportingPeriod      `xml:"ReportingPeriod" json:"ReportingPeriod"`
	ReportingPeriods ReportingPeriodNodes `xml:"ReportingPeriods" json:"ReportingPeriods"`
	Courses          CourseNodes          `xml:"Courses" json:"Courses"`
}

// ReportingPeriodNodes wraps the term list element.
type ReportingPeriodNodes struct {
	ReportPeriod NodeList[ReportingPeriod] `xml:"ReportPeriod" json:"ReportPeriod"`
}

// ReportingPeriod describes a grading term.
type ReportingPeriod struct {
	Index       string `xml:"Index,attr" json:"Index,omitempty"`
	GradePeriod string `xml:"GradePeriod,attr" json:"GradePeriod,omitempty"`
	StartDate   string `xml:"StartDate,attr" json:"StartDate,omitempty"`
	EndDate     string `xml:"EndDate,attr" json:"EndDate,omitempty"`
}

// CourseNodes wraps the course list element.
type CourseNodes struct {
	Course NodeList[Course] `xml:"Course" json:"Course"`
}

// Course is one class entry. Marks carries the per-period grade data; only
// the first mark is meaningful for the selected reporting period.
type Course struct {
	Period     string    `xml:"Period,attr" json:"Period,omitempty"`
	Title      string    `xml:"Title,attr" json:"Title,omitempty"`
	Room       string    `xml:"Room,attr" json:"Room,omitempty"`
	Staff      string    `xml:"Staff,attr" json:"Staff,omitempty"`
	StaffEMail string    `xml:"StaffEMail,attr" json:"StaffEMail,omitempty"`
	Marks      MarkNodes `xml:"Marks" json:"Marks"`
}

// MarkNodes wraps the mark list element.
type MarkNodes struct {
	Mark NodeList[Mark] `xml:"Mark" json:"Mark"`
}

// Mark holds the calculated grade plus assignments for one course/period.
type Mark struct {
	MarkName                string          `xml:"MarkName,attr" json:"MarkName,omitempty"`
	CalculatedScoreString   string          `xml:"CalculatedScoreString,attr" json:"CalculatedScoreString,omitempty"`
	CalculatedScoreRaw      string          `xml:"CalculatedScoreRaw,attr" json:"CalculatedScoreRaw,omitempty"`
	ScoreString             string          `xml:"ScoreString,attr" json:"ScoreString,omitempty"`
	ScoreRaw                string          `xml:"ScoreRaw,attr" json:"ScoreRaw,omitempty"`
	Assignments             AssignmentNodes `xml:"Assignments" json:"Assignments"`
	GradeCalculationSummary GradeCalcNodes  `xml:"GradeCalculationSummary" json:"GradeCalculationSummary"`
}

// AssignmentNodes wraps the assignment list element.
type AssignmentNodes struct {
	Assignment NodeList[Assignment] `xml:"Assignment" json:"Assignment"`
}

// Assignment is one raw gradebook item.
type Assignment struct {
	GradebookID        string `xml:"GradebookID,attr" json:"GradebookID,omitempty"`
	Measure            string `xml:"Measure,attr" json:"Measure,omitempty"`
	Type               string `xml:"Type,attr" json:"Type,omitempty"`
	Date               string `xml:"Date,attr" json:"Date,omitempty"`
	DueDate            string `xml:"DueDate,attr" json:"DueDate,omitempty"`
	Score              string `xml:"Score,attr" json:"Score,omitempty"`
	ScoreType          string `xml:"ScoreType,attr" json:"ScoreType,omitempty"`
	Points             string `xml:"Points,attr" json:"Points,omitempty"`
	Notes              string `xml:"Notes,attr" json:"Notes,omitempty"`
	MeasureDescription string `xml:"MeasureDescription,attr" json:"MeasureDescription,omitempty"`
}

// GradeCalcNodes wraps the category weighting summary.
type GradeCalcNodes struct {
	AssignmentGradeCalc NodeList[AssignmentGradeCalc] `xml:"AssignmentGradeCalc" json:"AssignmentGradeCalc"`
}

// AssignmentGradeCalc is one category row, including the synthetic TOTAL
// row the upstream appends.
type AssignmentGradeCalc struct {
	Type           string `xml:"Type,attr" json:"Type,omitempty"`
	Weight         string `xml:"Weight,attr" json:"Weight,omitempty"`
	Points         string `xml:"Points,attr" json:"Points,omitempty"`
	PointsPossible string `xml:"PointsPossible,attr" json:"PointsPossible,omitempty"`
	WeightedPct    string `xml:"WeightedPct,attr" json:"WeightedPct,omitempty"`
	CalculatedMark string `xml:"CalculatedMark,attr" json:"CalculatedMark,omitempty"`
}

// StudentInfo is the raw profile payload.
type StudentInfo struct {
	FormattedName string `xml:"FormattedName" json:"FormattedName,omitempty"`
	PermID        string `xml:"PermID" json:"PermID,omitempty"`
	Grade         string `xml:"Grade" json:"Grade,omitempty"`
	CurrentSchool string `xml:"CurrentSchool" json:"CurrentSchool,omitempty"`
	Photo         string `xml:"Photo" json:"Photo,omitempty"`
	CounselorName string `xml:"CounselorName" json:"CounselorName,omitempty"`
}
