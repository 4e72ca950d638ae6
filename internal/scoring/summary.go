// internal/scoring/summary.go
package scoring

import (
	"math"
	"time"

	"github.com/shrimpsizemoose/kateder/internal/models"
)

const dueDateFormat = "2006-01-02"

// GradeSummary aggregates one student's grades the way the gradebook views
// present them.
type GradeSummary struct {
	Count   int         `json:"count"`
	Average float64     `json:"average"`
	ByValue map[int]int `json:"by_value"`
}

// Summarize computes grade count, per-value counts and the average rounded
// to two decimals. An empty grade list yields a zero summary.
func Summarize(grades []models.Grade) GradeSummary {
	summary := GradeSummary{
		ByValue: make(map[int]int),
	}

	sum := 0
	for _, g := range grades {
		summary.Count++
		summary.ByValue[g.Value]++
		sum += g.Value
	}

	if summary.Count > 0 {
		avg := float64(sum) / float64(summary.Count)
		summary.Average = math.Round(avg*100) / 100
	}
	return summary
}

// ForStudent filters grades down to one student before summarizing.
func ForStudent(grades []models.Grade, studentID string) GradeSummary {
	var own []models.Grade
	for _, g := range grades {
		if g.StudentID == studentID {
			own = append(own, g)
		}
	}
	return Summarize(own)
}

// IsOverdue reports whether the assignment's due date lies before now.
// An unparseable due date is never overdue.
func IsOverdue(a models.Assignment, now time.Time) bool {
	due, err := time.Parse(dueDateFormat, a.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}
