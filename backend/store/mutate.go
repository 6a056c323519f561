package store

import (
	"fmt"
	"time"

	"tms/backend/models"
)

// Document mutators shared by the file and GORM stores. Each one edits the
// course in place and fails with ErrNotFound when a nested key is missing,
// leaving the document untouched.

func toggleBookmark(c *models.Course, subtopicID string) {
	for i, id := range c.BookmarkedSubtopics {
		if id == subtopicID {
			c.BookmarkedSubtopics = append(c.BookmarkedSubtopics[:i], c.BookmarkedSubtopics[i+1:]...)
			return
		}
	}
	c.BookmarkedSubtopics = append(c.BookmarkedSubtopics, subtopicID)
}

func toggleCompletion(c *models.Course, email, subtopicID string) error {
	l := c.Learner(email)
	if l == nil {
		return fmt.Errorf("learner %s: %w", email, ErrNotFound)
	}
	removed := false
	for i, id := range l.CompletedSubtopics {
		if id == subtopicID {
			l.CompletedSubtopics = append(l.CompletedSubtopics[:i], l.CompletedSubtopics[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		l.CompletedSubtopics = append(l.CompletedSubtopics, subtopicID)
	}
	l.RecomputeProgress(*c)
	return nil
}

func setGrade(c *models.Course, email, assessmentID string, status models.GradeStatus) error {
	l := c.Learner(email)
	if l == nil {
		return fmt.Errorf("learner %s: %w", email, ErrNotFound)
	}
	if !c.HasAssessment(assessmentID) {
		return fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
	}
	for i := range l.Grades {
		if l.Grades[i].AssessmentID == assessmentID {
			l.Grades[i].Status = status
			return nil
		}
	}
	l.Grades = append(l.Grades, models.AssessmentGrade{AssessmentID: assessmentID, Status: status})
	return nil
}

// setAllGrades overwrites the learner's grade for every assessment defined on
// the course, used when an aggregate status is edited directly.
func setAllGrades(c *models.Course, email string, status models.GradeStatus) error {
	l := c.Learner(email)
	if l == nil {
		return fmt.Errorf("learner %s: %w", email, ErrNotFound)
	}
	grades := make([]models.AssessmentGrade, 0, len(c.Assessments))
	for _, a := range c.Assessments {
		grades = append(grades, models.AssessmentGrade{AssessmentID: a.ID, Status: status})
	}
	l.Grades = grades
	return nil
}

// setAssessmentState moves the assessment to status. An empty accessCode keeps
// the current code, so an unpublish/republish cycle does not lose it.
func setAssessmentState(c *models.Course, assessmentID string, status models.AssessmentState, accessCode string) error {
	for i := range c.Assessments {
		if c.Assessments[i].ID == assessmentID {
			c.Assessments[i].Status = status
			if accessCode != "" {
				c.Assessments[i].AccessCode = accessCode
			}
			return nil
		}
	}
	return fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
}

// recordSubmission replaces any prior submission for the same assessment.
func recordSubmission(c *models.Course, email, assessmentID, filename string, now time.Time) error {
	l := c.Learner(email)
	if l == nil {
		return fmt.Errorf("learner %s: %w", email, ErrNotFound)
	}
	if !c.HasAssessment(assessmentID) {
		return fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
	}
	sub := models.Submission{AssessmentID: assessmentID, Filename: filename, SubmittedAt: now}
	for i := range l.Submissions {
		if l.Submissions[i].AssessmentID == assessmentID {
			l.Submissions[i] = sub
			return nil
		}
	}
	l.Submissions = append(l.Submissions, sub)
	return nil
}

func replaceLearner(c *models.Course, email string, rec models.LearnerEnrollment) error {
	for i := range c.Learners {
		if c.Learners[i].Email == email {
			c.Learners[i] = rec
			return nil
		}
	}
	return fmt.Errorf("learner %s: %w", email, ErrNotFound)
}
