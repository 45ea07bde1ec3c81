package dto

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeListSingleObject(t *testing.T) {
	payload := []byte(`{"Course": {"Title": "AP Calculus BC"}}`)

	var nodes CourseNodes
	require.NoError(t, json.Unmarshal(payload, &nodes))
	require.Len(t, nodes.Course, 1)
	assert.Equal(t, "AP Calculus BC", nodes.Course[0].Title)
}

func TestNodeListArray(t *testing.T) {
	payload := []byte(`{"Course": [{"Title": "First"}, {"Title": "Second"}]}`)

	var nodes CourseNodes
	require.NoError(t, json.Unmarshal(payload, &nodes))
	require.Len(t, nodes.Course, 2)
	assert.Equal(t, "First", nodes.Course[0].Title)
	assert.Equal(t, "Second", nodes.Course[1].Title)
}

func TestNodeListNull(t *testing.T) {
	payload := []byte(`{"Course": null}`)

	var nodes CourseNodes
	require.NoError(t, json.Unmarshal(payload, &nodes))
	assert.Empty(t, nodes.Course)
}

func TestNodeListXMLRepeatedElements(t *testing.T) {
	payload := []byte(`<Courses><Course Title="First"/><Course Title="Second"/></Courses>`)

	var nodes CourseNodes
	require.NoError(t, xml.Unmarshal(payload, &nodes))
	require.Len(t, nodes.Course, 2)
	assert.Equal(t, "Second", nodes.Course[1].Title)
}

func TestGradebookXMLDecoding(t *testing.T) {
	payload := []byte(`<Gradebook Type="Traditional">` +
		`<ReportingPeriod Index="1" GradePeriod="Quarter 2" StartDate="10/20/2025" EndDate="01/23/2026"/>` +
		`<Courses><Course Period="3" Title="Chemistry" Room="Lab 3">` +
		`<Marks><Mark CalculatedScoreString="C+" CalculatedScoreRaw="78.5">` +
		`<Assignments><Assignment Measure="Quiz" Type="Quizzes" Score="26.5 out of 30" Points="26.5 / 30"/></Assignments>` +
		`<GradeCalculationSummary>` +
		`<AssignmentGradeCalc Type="Quizzes" Weight="40%" Points="26.5" PointsPossible="30"/>` +
		`<AssignmentGradeCalc Type="TOTAL" Weight="100%"/>` +
		`</GradeCalculationSummary>` +
		`</Mark></Marks></Course></Courses></Gradebook>`)

	var gradebook Gradebook
	require.NoError(t, xml.Unmarshal(payload, &gradebook))

	assert.Equal(t, "Traditional", gradebook.Type)
	assert.Equal(t, "Quarter 2", gradebook.ReportingPeriod.GradePeriod)
	require.Len(t, gradebook.Courses.Course, 1)

	course := gradebook.Courses.Course[0]
	assert.Equal(t, "Chemistry", course.Title)
	require.Len(t, course.Marks.Mark, 1)

	mark := course.Marks.Mark[0]
	assert.Equal(t, "78.5", mark.CalculatedScoreRaw)
	require.Len(t, mark.Assignments.Assignment, 1)
	assert.Equal(t, "26.5 / 30", mark.Assignments.Assignment[0].Points)
	require.Len(t, mark.GradeCalculationSummary.AssignmentGradeCalc, 2)
	assert.Equal(t, "TOTAL", mark.GradeCalculationSummary.AssignmentGradeCalc[1].Type)
}
