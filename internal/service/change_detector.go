package service

import (
	"time"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

// ChangeDetector diffs two gradebook snapshots and reports per-course
// grade deltas. Courses are correlated by id, so entries only appearing on
// one side produce no change record.
type ChangeDetector struct {
	now func() time.Time
}

// NewChangeDetector constructs a detector using the wall clock.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{now: time.Now}
}

// Diff returns the grade changes between previous and next. A nil
// previous (first login) or an empty next yields no changes. All entries
// in one diff share a single timestamp.
func (d *ChangeDetector) Diff(previous, next *models.Gradebook) []models.GradeChange {
	if previous == nil || next == nil || len(next.Courses) == 0 {
		return nil
	}

	timestamp := d.now().UTC()
	var changes []models.GradeChange
	for _, course := range next.Courses {
		if course == nil {
			continue
		}
		prior := previous.CourseByID(course.ID)
		if prior == nil {
			continue
		}
		if gradesEqual(prior.Grade, course.Grade) && prior.LetterGrade == course.LetterGrade {
			continue
		}
		changes = append(changes, models.GradeChange{
			CourseID:       course.ID,
			CourseName:     course.Name,
			PreviousGrade:  prior.Grade,
			NewGrade:       course.Grade,
			PreviousLetter: prior.LetterGrade,
			NewLetter:      course.LetterGrade,
			Timestamp:      timestamp,
		})
	}
	return changes
}

// gradesEqual treats nil as a distinct comparable value.
func gradesEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
