package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/dto"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

var (
	fractionPattern       = regexp.MustCompile(`^\s*(-?[0-9]+(?:\.[0-9]+)?)\s*/\s*([0-9]+(?:\.[0-9]+)?)`)
	outOfPattern          = regexp.MustCompile(`(?i)^\s*(-?[0-9]+(?:\.[0-9]+)?)\s+out\s+of\s+([0-9]+(?:\.[0-9]+)?)`)
	pointsPossiblePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s+points?\s+possible`)
	weightPattern         = regexp.MustCompile(`(-?[0-9]+(?:\.[0-9]+)?)`)
)

var dueDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
}

// GradebookParser turns raw Synergy payloads into the canonical model.
// Parsing is total: malformed fields collapse to safe defaults and a
// corrupt course never aborts the rest of the payload.
type GradebookParser struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewGradebookParser constructs a parser.
func NewGradebookParser(logger *zap.Logger) *GradebookParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookParser{logger: logger, now: time.Now}
}

// Parse converts a raw gradebook plus optional student profile into the
// canonical Gradebook. It never fails; the worst malformed input yields an
// empty course list.
func (p *GradebookParser) Parse(raw *dto.Gradebook, student *dto.StudentInfo) *models.Gradebook {
	gradebook := &models.Gradebook{Courses: []*models.Course{}}
	if raw == nil {
		return gradebook
	}

	gradebook.ReportingPeriod = parseReportingPeriod(raw.ReportingPeriod)
	for _, period := range raw.ReportingPeriods.ReportPeriod {
		gradebook.ReportingPeriods = append(gradebook.ReportingPeriods, parseReportingPeriod(period))
	}

	if student != nil {
		gradebook.StudentInfo = &models.StudentInfo{
			Name:      strings.TrimSpace(student.FormattedName),
			PermID:    strings.TrimSpace(student.PermID),
			Grade:     strings.TrimSpace(student.Grade),
			School:    strings.TrimSpace(student.CurrentSchool),
			Photo:     student.Photo,
			Counselor: strings.TrimSpace(student.CounselorName),
		}
	}

	for i, rawCourse := range raw.Courses.Course {
		gradebook.Courses = append(gradebook.Courses, p.parseCourse(i, rawCourse))
	}
	return gradebook
}

func parseReportingPeriod(raw dto.ReportingPeriod) models.ReportingPeriod {
	index := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(raw.Index)); err == nil {
		index = parsed
	}
	return models.ReportingPeriod{
		Name:      strings.TrimSpace(raw.GradePeriod),
		StartDate: strings.TrimSpace(raw.StartDate),
		EndDate:   strings.TrimSpace(raw.EndDate),
		Index:     index,
	}
}

func (p *GradebookParser) parseCourse(index int, raw dto.Course) *models.Course {
	course := &models.Course{
		ID:          "course-" + strconv.Itoa(index),
		Name:        strings.TrimSpace(raw.Title),
		Period:      index + 1,
		Teacher:     strings.TrimSpace(raw.Staff),
		Room:        strings.TrimSpace(raw.Room),
		LetterGrade: "N/A",
		Assignments: []models.Assignment{},
	}
	if period, err := strconv.Atoi(strings.TrimSpace(raw.Period)); err == nil {
		course.Period = period
	}

	if len(raw.Marks.Mark) == 0 {
		return course
	}
	mark := raw.Marks.Mark[0]

	course.Grade = parseFloat(mark.CalculatedScoreRaw)
	if letter := strings.TrimSpace(mark.CalculatedScoreString); letter != "" {
		course.LetterGrade = letter
	} else {
		course.LetterGrade = LetterFromPercentage(course.Grade)
	}

	for _, rawAssignment := range mark.Assignments.Assignment {
		course.Assignments = append(course.Assignments, p.parseAssignment(rawAssignment))
	}

	course.Categories = p.parseCategories(mark.GradeCalculationSummary.AssignmentGradeCalc, course.Assignments)
	if course.Grade == nil && len(course.Assignments) > 0 {
		p.logger.Debug("course has assignments but no calculated grade",
			zap.String("course", course.Name))
	}
	return course
}

// parseCategories builds the weighted category list, skipping the
// synthetic TOTAL row. Upstream point totals are preferred when they
// parse; otherwise the sums are rebuilt from the assignment list.
func (p *GradebookParser) parseCategories(rows []dto.AssignmentGradeCalc, assignments []models.Assignment) []models.Category {
	var categories []models.Category
	for _, row := range rows {
		name := strings.TrimSpace(row.Type)
		if name == "" || strings.EqualFold(name, "TOTAL") {
			continue
		}
		category := models.Category{Name: name}
		if m := weightPattern.FindStringSubmatch(row.Weight); m != nil {
			if weight, err := strconv.ParseFloat(m[1], 64); err == nil {
				category.Weight = weight
			}
		}
		categories = append(categories, category)
	}
	if len(categories) == 0 {
		return nil
	}

	summaries := CategorySummaries(assignments, categories)
	for i, row := range categoryRows(rows) {
		earned := parseFloat(row.Points)
		possible := parseFloat(row.PointsPossible)
		if earned == nil || possible == nil {
			continue
		}
		summaries[i].Points = formatPoints(*earned) + "/" + formatPoints(*possible)
		if *possible > 0 {
			pct := *earned / *possible * 100
			summaries[i].Score = &pct
		}
	}
	return summaries
}

func categoryRows(rows []dto.AssignmentGradeCalc) []dto.AssignmentGradeCalc {
	kept := make([]dto.AssignmentGradeCalc, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Type)
		if name == "" || strings.EqualFold(name, "TOTAL") {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func (p *GradebookParser) parseAssignment(raw dto.Assignment) models.Assignment {
	assignment := models.Assignment{
		Name:        strings.TrimSpace(raw.Measure),
		Type:        strings.TrimSpace(raw.Type),
		Date:        strings.TrimSpace(raw.Date),
		DueDate:     strings.TrimSpace(raw.DueDate),
		Score:       strings.TrimSpace(raw.Score),
		ScoreType:   strings.TrimSpace(raw.ScoreType),
		Points:      strings.TrimSpace(raw.Points),
		Notes:       strings.TrimSpace(raw.Notes),
		Description: strings.TrimSpace(raw.MeasureDescription),
	}

	assignment.PointsEarned, assignment.PointsPossible = scoreFromStrings(assignment.Score, assignment.Points)
	assignment.IsMissing = p.isMissing(assignment)
	return assignment
}

// scoreFromStrings derives numeric points from the display strings. The
// Points attribute ("95 / 100" or "100.0000 Points Possible") is tried
// first, then the Score attribute ("95 out of 100"). A score text marked
// missing counts as zero earned.
func scoreFromStrings(score, points string) (earned, possible *float64) {
	if m := fractionPattern.FindStringSubmatch(points); m != nil {
		earned = parseFloat(m[1])
		possible = parseFloat(m[2])
	} else if m := pointsPossiblePattern.FindStringSubmatch(points); m != nil {
		possible = parseFloat(m[1])
	}

	if earned == nil {
		if m := outOfPattern.FindStringSubmatch(score); m != nil {
			earned = parseFloat(m[1])
			if possible == nil {
				possible = parseFloat(m[2])
			}
		}
	}

	if earned == nil && containsFold(score, "missing") {
		zero := 0.0
		earned = &zero
	}
	return earned, possible
}

func (p *GradebookParser) isMissing(assignment models.Assignment) bool {
	if containsFold(assignment.Score, "missing") || containsFold(assignment.Notes, "missing") {
		return true
	}
	if !containsFold(assignment.Score, "not graded") {
		return false
	}
	if assignment.PointsEarned != nil && *assignment.PointsEarned != 0 {
		return false
	}
	due, ok := parseDueDate(assignment.DueDate)
	return ok && due.Before(p.now())
}

func parseDueDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
