package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/dto"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func newTestParser() *GradebookParser {
	parser := NewGradebookParser(nil)
	parser.now = fixedClock
	return parser
}

func TestParseNilGradebook(t *testing.T) {
	parser := newTestParser()
	gradebook := parser.Parse(nil, nil)
	require.NotNil(t, gradebook)
	assert.Empty(t, gradebook.Courses)
}

func TestParseGradebook(t *testing.T) {
	parser := newTestParser()

	raw := &dto.Gradebook{
		ReportingPeriod: dto.ReportingPeriod{
			Index:       "2",
			GradePeriod: "Quarter 3",
			StartDate:   "01/26/2026",
			EndDate:     "04/03/2026",
		},
		ReportingPeriods: dto.ReportingPeriodNodes{
			ReportPeriod: dto.NodeList[dto.ReportingPeriod]{
				{Index: "0", GradePeriod: "Quarter 1"},
				{Index: "1", GradePeriod: "Quarter 2"},
				{Index: "2", GradePeriod: "Quarter 3"},
			},
		},
		Courses: dto.CourseNodes{
			Course: dto.NodeList[dto.Course]{
				{
					Period: "1",
					Title:  "AP Calculus BC",
					Room:   "214",
					Staff:  "R. Feynman",
					Marks: dto.MarkNodes{
						Mark: dto.NodeList[dto.Mark]{
							{
								CalculatedScoreString: "A-",
								CalculatedScoreRaw:    "91.3",
								Assignments: dto.AssignmentNodes{
									Assignment: dto.NodeList[dto.Assignment]{
										{
											Measure: "Unit 7 Test",
											Type:    "Tests",
											DueDate: "02/20/2026",
											Score:   "88 out of 100",
											Points:  "88 / 100",
										},
										{
											Measure: "Homework 7.1",
											Type:    "Homework",
											DueDate: "02/17/2026",
											Score:   "38 out of 40",
											Points:  "38 / 40",
										},
									},
								},
								GradeCalculationSummary: dto.GradeCalcNodes{
									AssignmentGradeCalc: dto.NodeList[dto.AssignmentGradeCalc]{
										{Type: "Tests", Weight: "60%", Points: "88", PointsPossible: "100"},
										{Type: "Homework", Weight: "40%", Points: "38", PointsPossible: "40"},
										{Type: "TOTAL", Weight: "100%"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	student := &dto.StudentInfo{
		FormattedName: " Ada Lovelace ",
		PermID:        "123456",
		Grade:         "11",
		CurrentSchool: "GradeVue High School",
	}

	gradebook := parser.Parse(raw, student)

	assert.Equal(t, "Quarter 3", gradebook.ReportingPeriod.Name)
	assert.Equal(t, 2, gradebook.ReportingPeriod.Index)
	assert.Len(t, gradebook.ReportingPeriods, 3)

	require.NotNil(t, gradebook.StudentInfo)
	assert.Equal(t, "Ada Lovelace", gradebook.StudentInfo.Name)
	assert.Equal(t, "GradeVue High School", gradebook.StudentInfo.School)

	require.Len(t, gradebook.Courses, 1)
	course := gradebook.Courses[0]
	assert.Equal(t, "course-0", course.ID)
	assert.Equal(t, "AP Calculus BC", course.Name)
	assert.Equal(t, 1, course.Period)
	assert.Equal(t, "R. Feynman", course.Teacher)
	require.NotNil(t, course.Grade)
	assert.InDelta(t, 91.3, *course.Grade, 1e-9)
	assert.Equal(t, "A-", course.LetterGrade)

	require.Len(t, course.Assignments, 2)
	first := course.Assignments[0]
	assert.Equal(t, "Unit 7 Test", first.Name)
	require.NotNil(t, first.PointsEarned)
	assert.Equal(t, 88.0, *first.PointsEarned)
	require.NotNil(t, first.PointsPossible)
	assert.Equal(t, 100.0, *first.PointsPossible)
	assert.False(t, first.IsMissing)

	// TOTAL row is dropped; upstream point totals are preferred.
	require.Len(t, course.Categories, 2)
	assert.Equal(t, "Tests", course.Categories[0].Name)
	assert.Equal(t, 60.0, course.Categories[0].Weight)
	assert.Equal(t, "88/100", course.Categories[0].Points)
	require.NotNil(t, course.Categories[0].Score)
	assert.InDelta(t, 88, *course.Categories[0].Score, 1e-9)
}

func TestParseCourseIDsArePositional(t *testing.T) {
	parser := newTestParser()
	raw := &dto.Gradebook{
		Courses: dto.CourseNodes{
			Course: dto.NodeList[dto.Course]{
				{Title: "First"},
				{Title: "Second"},
				{Title: "Third"},
			},
		},
	}

	gradebook := parser.Parse(raw, nil)
	require.Len(t, gradebook.Courses, 3)
	assert.Equal(t, "course-0", gradebook.Courses[0].ID)
	assert.Equal(t, "course-1", gradebook.Courses[1].ID)
	assert.Equal(t, "course-2", gradebook.Courses[2].ID)
	// No marks at all: ungraded course, period falls back to position.
	assert.Nil(t, gradebook.Courses[0].Grade)
	assert.Equal(t, "N/A", gradebook.Courses[0].LetterGrade)
	assert.Equal(t, 2, gradebook.Courses[1].Period)
}

func TestParseLetterFallsBackToScale(t *testing.T) {
	parser := newTestParser()
	raw := &dto.Gradebook{
		Courses: dto.CourseNodes{
			Course: dto.NodeList[dto.Course]{
				{
					Title: "Chemistry",
					Marks: dto.MarkNodes{
						Mark: dto.NodeList[dto.Mark]{
							{CalculatedScoreRaw: "78.5"},
						},
					},
				},
			},
		},
	}

	gradebook := parser.Parse(raw, nil)
	require.Len(t, gradebook.Courses, 1)
	assert.Equal(t, "C+", gradebook.Courses[0].LetterGrade)
}

func TestScoreFromStrings(t *testing.T) {
	cases := []struct {
		name     string
		score    string
		points   string
		earned   *float64
		possible *float64
	}{
		{"fraction points", "", "38 / 40", f64(38), f64(40)},
		{"out of score", "88 out of 100", "", f64(88), f64(100)},
		{"points possible only", "Not Graded", "100.0000 Points Possible", nil, f64(100)},
		{"missing counts as zero", "Missing", "20.0000 Points Possible", f64(0), f64(20)},
		{"decimal fraction", "", "36.5 / 40", f64(36.5), f64(40)},
		{"garbage", "TBD", "pending", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			earned, possible := scoreFromStrings(tc.score, tc.points)
			if tc.earned == nil {
				assert.Nil(t, earned)
			} else {
				require.NotNil(t, earned)
				assert.Equal(t, *tc.earned, *earned)
			}
			if tc.possible == nil {
				assert.Nil(t, possible)
			} else {
				require.NotNil(t, possible)
				assert.Equal(t, *tc.possible, *possible)
			}
		})
	}
}

func TestIsMissing(t *testing.T) {
	parser := newTestParser()
	raw := &dto.Gradebook{
		Courses: dto.CourseNodes{
			Course: dto.NodeList[dto.Course]{
				{
					Title: "Chemistry",
					Marks: dto.MarkNodes{
						Mark: dto.NodeList[dto.Mark]{
							{
								Assignments: dto.AssignmentNodes{
									Assignment: dto.NodeList[dto.Assignment]{
										{Measure: "Flagged", Score: "Missing", Points: "20.0000 Points Possible"},
										{Measure: "Overdue ungraded", Score: "Not Graded", Points: "10.0000 Points Possible", DueDate: "02/11/2026"},
										{Measure: "Future ungraded", Score: "Not Graded", Points: "10.0000 Points Possible", DueDate: "04/11/2026"},
										{Measure: "Graded", Score: "9 out of 10", Points: "9 / 10"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	gradebook := parser.Parse(raw, nil)
	require.Len(t, gradebook.Courses, 1)
	assignments := gradebook.Courses[0].Assignments
	require.Len(t, assignments, 4)

	assert.True(t, assignments[0].IsMissing, "explicit missing flag")
	assert.True(t, assignments[1].IsMissing, "ungraded past due date")
	assert.False(t, assignments[2].IsMissing, "ungraded but not yet due")
	assert.False(t, assignments[3].IsMissing, "graded")
}
