package service

import "github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"

// maxGradeChanges bounds the per-session grade change history.
const maxGradeChanges = 50

// changeRing is a fixed-capacity, newest-first history of grade changes.
// Old entries fall off the tail once capacity is reached.
type changeRing struct {
	buf   []models.GradeChange
	head  int
	count int
}

func newChangeRing(capacity int) *changeRing {
	if capacity <= 0 {
		capacity = maxGradeChanges
	}
	return &changeRing{buf: make([]models.GradeChange, capacity)}
}

// Prepend inserts a batch at the front of the history, preserving the
// batch's own ordering (changes[0] stays newest).
func (r *changeRing) Prepend(changes []models.GradeChange) {
	for i := len(changes) - 1; i >= 0; i-- {
		r.head = (r.head - 1 + len(r.buf)) % len(r.buf)
		r.buf[r.head] = changes[i]
		if r.count < len(r.buf) {
			r.count++
		}
	}
}

// List copies the history newest first.
func (r *changeRing) List() []models.GradeChange {
	out := make([]models.GradeChange, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Clear empties the history.
func (r *changeRing) Clear() {
	r.head = 0
	r.count = 0
}

// Len reports the number of retained changes.
func (r *changeRing) Len() int {
	return r.count
}
