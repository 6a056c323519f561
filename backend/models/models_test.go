package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallGrade(t *testing.T) {
	assert.Equal(t, GradePending, OverallGrade(nil))
	assert.Equal(t, GradePending, OverallGrade([]AssessmentGrade{}))

	grades := []AssessmentGrade{
		{AssessmentID: "a1", Status: GradeCompetent},
		{AssessmentID: "a2", Status: GradeCompetent},
	}
	assert.Equal(t, GradeCompetent, OverallGrade(grades))

	grades = append(grades, AssessmentGrade{AssessmentID: "a3", Status: GradeNotYetCompetent})
	assert.Equal(t, GradeNotYetCompetent, OverallGrade(grades))

	// A still-pending grade keeps the aggregate pending even when the rest
	// are competent.
	grades = []AssessmentGrade{
		{AssessmentID: "a1", Status: GradeCompetent},
		{AssessmentID: "a2", Status: GradePending},
	}
	assert.Equal(t, GradePending, OverallGrade(grades))

	// NotYetCompetent wins over Pending.
	grades = append(grades, AssessmentGrade{AssessmentID: "a3", Status: GradeNotYetCompetent})
	assert.Equal(t, GradeNotYetCompetent, OverallGrade(grades))
}

func TestRecomputeProgress(t *testing.T) {
	course := Course{
		Topics: []Topic{
			{ID: "t1", Subtopics: []Subtopic{{ID: "st1"}, {ID: "st2"}}},
			{ID: "t2", Subtopics: []Subtopic{{ID: "st3"}}},
		},
	}

	learner := LearnerEnrollment{CompletedSubtopics: []string{"st1"}}
	learner.RecomputeProgress(course)
	assert.Equal(t, 33, learner.ProgressPercent)

	learner.CompletedSubtopics = []string{"st1", "st2"}
	learner.RecomputeProgress(course)
	assert.Equal(t, 67, learner.ProgressPercent)

	learner.CompletedSubtopics = []string{"st1", "st2", "st3"}
	learner.RecomputeProgress(course)
	assert.Equal(t, 100, learner.ProgressPercent)

	// A course with no subtopics counts as fully complete.
	empty := Course{}
	learner = LearnerEnrollment{}
	learner.RecomputeProgress(empty)
	assert.Equal(t, 100, learner.ProgressPercent)
}

func TestTotalHours(t *testing.T) {
	course := Course{TrainingHours: 20, AssessmentHours: 4}
	assert.Equal(t, 24.0, course.TotalHours())
}

func TestEnrollmentCopiesProfile(t *testing.T) {
	profile := LearnerProfile{Name: "Alice", Email: "alice@example.com", Phone: "91234567"}
	rec := profile.Enrollment()

	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "alice@example.com", rec.Email)
	assert.Equal(t, 0, rec.ProgressPercent)
	assert.Empty(t, rec.Grades)
	assert.Equal(t, ClaimNotApplicable, rec.GrantStatus)
}
