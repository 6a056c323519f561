package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/backend/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore("")
	require.NoError(t, err)
	return s
}

func TestFileStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	created, err := s.CreateCourse(ctx, models.Course{Title: "Forklift Operation"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// A fresh store over the same file sees the course.
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	courses, err := reloaded.ListCourses(ctx)
	require.NoError(t, err)

	found := false
	for _, c := range courses {
		if c.ID == created.ID {
			found = true
			assert.Equal(t, "Forklift Operation", c.Title)
		}
	}
	assert.True(t, found)
}

func TestCreateCourseAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCourse(ctx, models.Course{ID: "client-chosen", Title: "New Course"})
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", created.ID)
}

func TestReplaceCourseNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReplaceCourse(context.Background(), models.Course{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.ToggleBookmark(ctx, "crs-101", "st1")
	require.NoError(t, err)
	assert.Equal(t, []string{"st1"}, c.BookmarkedSubtopics)

	c, err = s.ToggleBookmark(ctx, "crs-101", "st1")
	require.NoError(t, err)
	assert.Empty(t, c.BookmarkedSubtopics)
}

func enrollSeedLearner(t *testing.T, s *FileStore) models.Course {
	t.Helper()
	ctx := context.Background()
	courses, err := s.ListCourses(ctx)
	require.NoError(t, err)
	var course models.Course
	for _, c := range courses {
		if c.ID == "crs-101" {
			course = c
		}
	}
	require.Equal(t, "crs-101", course.ID)

	profile := models.LearnerProfile{Name: "Alice", Email: "alice@example.com"}
	course.Learners = append(course.Learners, profile.Enrollment())
	updated, err := s.ReplaceCourse(ctx, course)
	require.NoError(t, err)
	return updated
}

func TestToggleCompletionRecomputesProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	// Seed course crs-101 has three subtopics.
	c, err := s.ToggleCompletion(ctx, "crs-101", "alice@example.com", "st1")
	require.NoError(t, err)
	learner := c.Learner("alice@example.com")
	require.NotNil(t, learner)
	assert.Equal(t, []string{"st1"}, learner.CompletedSubtopics)
	assert.Equal(t, 33, learner.ProgressPercent)

	c, err = s.ToggleCompletion(ctx, "crs-101", "alice@example.com", "st2")
	require.NoError(t, err)
	assert.Equal(t, 67, c.Learner("alice@example.com").ProgressPercent)

	// Toggling off removes the subtopic and recomputes downward.
	c, err = s.ToggleCompletion(ctx, "crs-101", "alice@example.com", "st2")
	require.NoError(t, err)
	learner = c.Learner("alice@example.com")
	assert.Equal(t, []string{"st1"}, learner.CompletedSubtopics)
	assert.Equal(t, 33, learner.ProgressPercent)

	_, err = s.ToggleCompletion(ctx, "crs-101", "nobody@example.com", "st1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetGradeCardinality(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	c, err := s.SetGrade(ctx, "crs-101", "alice@example.com", "a1", models.GradeCompetent)
	require.NoError(t, err)
	require.Len(t, c.Learner("alice@example.com").Grades, 1)

	// A second grade for the same assessment replaces the first.
	c, err = s.SetGrade(ctx, "crs-101", "alice@example.com", "a1", models.GradeNotYetCompetent)
	require.NoError(t, err)
	grades := c.Learner("alice@example.com").Grades
	require.Len(t, grades, 1)
	assert.Equal(t, models.GradeNotYetCompetent, grades[0].Status)

	_, err = s.SetGrade(ctx, "crs-101", "alice@example.com", "missing", models.GradeCompetent)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAllGrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	c, err := s.SetAllGrades(ctx, "crs-101", "alice@example.com", models.GradeCompetent)
	require.NoError(t, err)

	grades := c.Learner("alice@example.com").Grades
	require.Len(t, grades, 2) // one per assessment defined on the course
	seen := map[string]bool{}
	for _, g := range grades {
		assert.Equal(t, models.GradeCompetent, g.Status)
		assert.False(t, seen[g.AssessmentID])
		seen[g.AssessmentID] = true
	}
	assert.Equal(t, models.GradeCompetent, models.OverallGrade(grades))
}

func TestRecordSubmissionReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	c, err := s.RecordSubmission(ctx, "crs-101", "alice@example.com", "a1", "first.pdf")
	require.NoError(t, err)
	require.Len(t, c.Learner("alice@example.com").Submissions, 1)

	c, err = s.RecordSubmission(ctx, "crs-101", "alice@example.com", "a1", "second.pdf")
	require.NoError(t, err)
	subs := c.Learner("alice@example.com").Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, "second.pdf", subs[0].Filename)
}

func TestSetAssessmentState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.SetAssessmentState(ctx, "crs-101", "a2", models.AssessmentPublished, "1234")
	require.NoError(t, err)

	var found models.Assessment
	for _, a := range c.Assessments {
		if a.ID == "a2" {
			found = a
		}
	}
	assert.Equal(t, models.AssessmentPublished, found.Status)
	assert.Equal(t, "1234", found.AccessCode)

	// Unpublishing without a code keeps the one already set.
	c, err = s.SetAssessmentState(ctx, "crs-101", "a2", models.AssessmentUnpublished, "")
	require.NoError(t, err)
	for _, a := range c.Assessments {
		if a.ID == "a2" {
			assert.Equal(t, models.AssessmentUnpublished, a.Status)
			assert.Equal(t, "1234", a.AccessCode)
		}
	}

	_, err = s.SetAssessmentState(ctx, "crs-101", "missing", models.AssessmentPublished, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceLearner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	rec := models.LearnerEnrollment{Name: "Alice Ng", Email: "alice@example.com", PaymentStatus: "Paid"}
	c, err := s.ReplaceLearner(ctx, "crs-101", "alice@example.com", rec)
	require.NoError(t, err)

	learner := c.Learner("alice@example.com")
	require.NotNil(t, learner)
	assert.Equal(t, "Alice Ng", learner.Name)
	assert.Equal(t, "Paid", learner.PaymentStatus)

	_, err = s.ReplaceLearner(ctx, "crs-101", "nobody@example.com", rec)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFailedMutationLeavesCourseUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	enrollSeedLearner(t, s)

	before, err := s.ListCourses(ctx)
	require.NoError(t, err)

	_, err = s.SetGrade(ctx, "crs-101", "alice@example.com", "missing", models.GradeCompetent)
	require.ErrorIs(t, err, ErrNotFound)

	after, err := s.ListCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	before, err := s.ListCourses(ctx)
	require.NoError(t, err)

	// A directory squatting on the temp file makes every save fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	_, err = s.ToggleBookmark(ctx, "crs-101", "st1")
	require.ErrorIs(t, err, ErrUnavailable)
	err = s.DeleteCourse(ctx, "crs-101")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = s.CreateCourse(ctx, models.Course{Title: "Orphan"})
	require.ErrorIs(t, err, ErrUnavailable)

	after, err := s.ListCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGrantLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateGrant(ctx, models.GrantApplication{CourseID: "crs-101", LearnerEmail: "alice@example.com", Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimPending, created.Status)
	assert.False(t, created.SubmittedAt.IsZero())

	updated, err := s.SetGrantStatus(ctx, created.ID, models.ClaimSuccess)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimSuccess, updated.Status)

	_, err = s.SetGrantStatus(ctx, "missing", models.ClaimFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateEvent(ctx, models.CalendarEvent{Title: "Intake Briefing", Date: "2024-04-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	created.Location = "Room 2B"
	updated, err := s.ReplaceEvent(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Room 2B", updated.Location)

	require.NoError(t, s.DeleteEvent(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteEvent(ctx, created.ID), ErrNotFound)
}
