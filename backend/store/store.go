// Package store defines the persistence boundary the sync core talks to,
// plus its interchangeable implementations: a JSON-file store, a GORM-backed
// store and an HTTP client against the REST API. All three honour the same
// contract: whole-entity CRUD, and nested mutators that return the entire
// updated course document.
package store

import (
	"context"
	"errors"

	"tms/backend/models"
)

var (
	// ErrNotFound reports that the targeted id, or a nested learner or
	// assessment key, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable reports a transport or storage failure.
	ErrUnavailable = errors.New("store unavailable")
)

// RemoteStore is the authoritative data store. Every operation either
// resolves with plain data or fails; callers never observe partial updates.
type RemoteStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	// CreateCourse assigns identity; any id on the draft is replaced.
	CreateCourse(ctx context.Context, draft models.Course) (models.Course, error)
	// ReplaceCourse overwrites the whole document by id.
	ReplaceCourse(ctx context.Context, course models.Course) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	// Nested mutators. Each returns the entire updated course.
	ToggleBookmark(ctx context.Context, courseID, subtopicID string) (models.Course, error)
	ToggleCompletion(ctx context.Context, courseID, email, subtopicID string) (models.Course, error)
	SetGrade(ctx context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error)
	SetAllGrades(ctx context.Context, courseID, email string, status models.GradeStatus) (models.Course, error)
	SetAssessmentState(ctx context.Context, courseID, assessmentID string, status models.AssessmentState, accessCode string) (models.Course, error)
	RecordSubmission(ctx context.Context, courseID, email, assessmentID, filename string) (models.Course, error)
	ReplaceLearner(ctx context.Context, courseID, email string, rec models.LearnerEnrollment) (models.Course, error)

	ListEvents(ctx context.Context) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, draft models.CalendarEvent) (models.CalendarEvent, error)
	ReplaceEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error

	ListGrants(ctx context.Context) ([]models.GrantApplication, error)
	CreateGrant(ctx context.Context, draft models.GrantApplication) (models.GrantApplication, error)
	SetGrantStatus(ctx context.Context, id string, status models.ClaimStatus) (models.GrantApplication, error)

	ListLearners(ctx context.Context) ([]models.LearnerProfile, error)
	CreateLearner(ctx context.Context, profile models.LearnerProfile) (models.LearnerProfile, error)

	ListJobs(ctx context.Context) ([]models.JobPosting, error)
}
