package service

import (
	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

// HypotheticalEngine derives a what-if gradebook from a base gradebook
// plus per-course overrides. Apply is pure and idempotent: the base is
// never mutated and courses without overrides are shared by reference so
// downstream equality checks stay cheap.
type HypotheticalEngine struct {
	logger *zap.Logger
}

// NewHypotheticalEngine constructs the engine.
func NewHypotheticalEngine(logger *zap.Logger) *HypotheticalEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HypotheticalEngine{logger: logger}
}

// Apply returns a derived gradebook with overridden courses recomputed.
func (e *HypotheticalEngine) Apply(base *models.Gradebook, overrides map[string]*models.CourseOverrides) *models.Gradebook {
	if base == nil {
		return nil
	}
	derived := *base
	derived.Courses = make([]*models.Course, len(base.Courses))
	for i, course := range base.Courses {
		if course == nil {
			continue
		}
		entry := overrides[course.ID]
		if entry.Empty() {
			derived.Courses[i] = course
			continue
		}
		derived.Courses[i] = e.applyCourse(course, entry)
	}
	return &derived
}

func (e *HypotheticalEngine) applyCourse(course *models.Course, overrides *models.CourseOverrides) *models.Course {
	derived := *course
	assignments := make([]models.Assignment, len(course.Assignments))
	copy(assignments, course.Assignments)

	for index, override := range overrides.ModifiedAssignments {
		// Assignment lists can shrink between the base snapshot and an
		// edit; stale indices are a silent no-op.
		if index < 0 || index >= len(assignments) {
			continue
		}
		earned := override.PointsEarned
		possible := override.PointsPossible
		assignment := &assignments[index]
		assignment.PointsEarned = &earned
		assignment.PointsPossible = &possible
		assignment.Score = formatPoints(earned) + " out of " + formatPoints(possible)
		assignment.Points = formatPoints(earned) + " / " + formatPoints(possible)
		assignment.IsMissing = false
	}

	for _, added := range overrides.AddedAssignments {
		earned := added.PointsEarned
		possible := added.PointsPossible
		assignments = append(assignments, models.Assignment{
			ID:             added.ID,
			Name:           added.Name,
			Type:           added.Type,
			Score:          formatPoints(earned) + " out of " + formatPoints(possible),
			Points:         formatPoints(earned) + " / " + formatPoints(possible),
			PointsEarned:   &earned,
			PointsPossible: &possible,
			IsHypothetical: true,
		})
	}

	derived.Assignments = assignments
	if len(course.Categories) > 0 {
		derived.Categories = CategorySummaries(assignments, course.Categories)
		derived.Grade = WeightedCourseGrade(assignments, course.Categories, course.Grade)
	} else {
		derived.Grade = SimpleCourseGrade(assignments)
	}
	derived.LetterGrade = LetterFromPercentage(derived.Grade)
	return &derived
}
