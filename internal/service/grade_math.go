package service

import (
	"strconv"
	"strings"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

// LetterFromPercentage maps a percentage onto the fixed letter scale.
// A nil percentage (ungraded course) maps to "N/A".
func LetterFromPercentage(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	switch p := *pct; {
	case p >= 93:
		return "A"
	case p >= 90:
		return "A-"
	case p >= 87:
		return "B+"
	case p >= 83:
		return "B"
	case p >= 80:
		return "B-"
	case p >= 77:
		return "C+"
	case p >= 73:
		return "C"
	case p >= 70:
		return "C-"
	case p >= 67:
		return "D+"
	case p >= 63:
		return "D"
	case p >= 60:
		return "D-"
	default:
		return "F"
	}
}

// PointsFromLetter maps a letter grade onto GPA points. Unrecognized
// letters count as 0.0.
func PointsFromLetter(letter string) float64 {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A", "A+":
		return 4.0
	case "A-":
		return 3.7
	case "B+":
		return 3.3
	case "B":
		return 3.0
	case "B-":
		return 2.7
	case "C+":
		return 2.3
	case "C":
		return 2.0
	case "C-":
		return 1.7
	case "D+":
		return 1.3
	case "D":
		return 1.0
	case "D-":
		return 0.7
	default:
		return 0.0
	}
}

// CategoryIndexFor resolves which category an assignment belongs to.
// Matching is a case-insensitive substring check in either direction
// between the assignment type and the category name. When nothing matches
// the assignment lands in the first category; that quirk is load-bearing
// for compatibility with the upstream product. Returns -1 only when the
// course has no categories at all.
func CategoryIndexFor(assignmentType string, categories []models.Category) int {
	if len(categories) == 0 {
		return -1
	}
	needle := strings.ToLower(strings.TrimSpace(assignmentType))
	for i, category := range categories {
		name := strings.ToLower(strings.TrimSpace(category.Name))
		if needle == "" || name == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return i
		}
	}
	return 0
}

// WeightedCourseGrade computes a category-weighted course percentage.
// Categories whose possible-point sum is zero are skipped entirely, and
// the final grade is expressed against the weight actually used rather
// than a fixed 100. When no category has points, the course's last-known
// grade is returned unchanged.
func WeightedCourseGrade(assignments []models.Assignment, categories []models.Category, lastKnown *float64) *float64 {
	if len(categories) == 0 {
		return SimpleCourseGrade(assignments)
	}

	earned := make([]float64, len(categories))
	possible := make([]float64, len(categories))
	for _, assignment := range assignments {
		if assignment.PointsEarned == nil || assignment.PointsPossible == nil {
			continue
		}
		idx := CategoryIndexFor(assignment.Type, categories)
		if idx < 0 {
			continue
		}
		earned[idx] += *assignment.PointsEarned
		possible[idx] += *assignment.PointsPossible
	}

	weightedSum := 0.0
	usedWeight := 0.0
	for i, category := range categories {
		if possible[i] == 0 {
			continue
		}
		pct := earned[i] / possible[i] * 100
		weightedSum += pct * category.Weight
		usedWeight += category.Weight
	}
	if usedWeight == 0 {
		return lastKnown
	}
	grade := weightedSum / usedWeight
	return &grade
}

// SimpleCourseGrade computes a straight points percentage over all graded
// assignments. Returns nil when nothing has been graded.
func SimpleCourseGrade(assignments []models.Assignment) *float64 {
	earned := 0.0
	possible := 0.0
	for _, assignment := range assignments {
		if assignment.PointsEarned == nil || assignment.PointsPossible == nil {
			continue
		}
		if *assignment.PointsPossible <= 0 {
			continue
		}
		earned += *assignment.PointsEarned
		possible += *assignment.PointsPossible
	}
	if possible == 0 {
		return nil
	}
	grade := earned / possible * 100
	return &grade
}

// CategorySummaries recomputes per-category scores and display strings
// from the assignment list, preserving category order and weights.
func CategorySummaries(assignments []models.Assignment, categories []models.Category) []models.Category {
	if len(categories) == 0 {
		return nil
	}
	earned := make([]float64, len(categories))
	possible := make([]float64, len(categories))
	for _, assignment := range assignments {
		if assignment.PointsEarned == nil || assignment.PointsPossible == nil {
			continue
		}
		idx := CategoryIndexFor(assignment.Type, categories)
		if idx < 0 {
			continue
		}
		earned[idx] += *assignment.PointsEarned
		possible[idx] += *assignment.PointsPossible
	}

	summaries := make([]models.Category, len(categories))
	for i, category := range categories {
		summary := models.Category{Name: category.Name, Weight: category.Weight}
		summary.Points = formatPoints(earned[i]) + "/" + formatPoints(possible[i])
		if possible[i] > 0 {
			pct := earned[i] / possible[i] * 100
			summary.Score = &pct
		}
		summaries[i] = summary
	}
	return summaries
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
