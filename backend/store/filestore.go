package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"tms/backend/models"
)

var _ RemoteStore = (*FileStore)(nil)

// FileStore persists every collection in a single JSON file. It is the
// local-development twin of the GORM store: same contract, no database.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state fileState
}

type fileState struct {
	Courses  []models.Course           `json:"courses"`
	Events   []models.CalendarEvent    `json:"events"`
	Grants   []models.GrantApplication `json:"grants"`
	Learners []models.LearnerProfile   `json:"learners"`
	Jobs     []models.JobPosting       `json:"jobs"`
}

// NewFileStore loads state from path, seeding a demo dataset when the file
// does not exist yet. An empty path keeps everything in memory only.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, state: seedState()}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, ErrUnavailable)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, ErrUnavailable)
	}
	return s, nil
}

// save writes the whole state atomically. Callers hold s.mu.
func (s *FileStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %v: %w", err, ErrUnavailable)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("write %s: %v: %w", s.path, err, ErrUnavailable)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %v: %w", tmp, err, ErrUnavailable)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write %s: %v: %w", s.path, err, ErrUnavailable)
	}
	return nil
}

// clone deep-copies a value through its JSON form so callers never share
// slices with the store's state.
func clone[T any](v T) T {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out
	}
	return out
}

func (s *FileStore) courseIndex(id string) int {
	for i := range s.state.Courses {
		if s.state.Courses[i].ID == id {
			return i
		}
	}
	return -1
}

// mutateCourse applies fn to a copy of the course and commits it only when fn
// and the save both succeed.
func (s *FileStore) mutateCourse(courseID string, fn func(*models.Course) error) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.courseIndex(courseID)
	if i < 0 {
		return models.Course{}, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	c := clone(s.state.Courses[i])
	if err := fn(&c); err != nil {
		return models.Course{}, err
	}
	prev := s.state.Courses[i]
	s.state.Courses[i] = c
	if err := s.save(); err != nil {
		s.state.Courses[i] = prev
		return models.Course{}, err
	}
	return clone(c), nil
}

func (s *FileStore) ListCourses(_ context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Courses), nil
}

func (s *FileStore) CreateCourse(_ context.Context, draft models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.ID = uuid.NewString()
	if draft.RunID == "" {
		draft.RunID = uuid.NewString()
	}
	s.state.Courses = append(s.state.Courses, clone(draft))
	if err := s.save(); err != nil {
		s.state.Courses = s.state.Courses[:len(s.state.Courses)-1]
		return models.Course{}, err
	}
	return draft, nil
}

func (s *FileStore) ReplaceCourse(_ context.Context, course models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.courseIndex(course.ID)
	if i < 0 {
		return models.Course{}, fmt.Errorf("course %s: %w", course.ID, ErrNotFound)
	}
	prev := s.state.Courses[i]
	s.state.Courses[i] = clone(course)
	if err := s.save(); err != nil {
		s.state.Courses[i] = prev
		return models.Course{}, err
	}
	return course, nil
}

func (s *FileStore) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.courseIndex(id)
	if i < 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	prev := s.state.Courses
	rest := make([]models.Course, 0, len(prev)-1)
	rest = append(rest, prev[:i]...)
	rest = append(rest, prev[i+1:]...)
	s.state.Courses = rest
	if err := s.save(); err != nil {
		s.state.Courses = prev
		return err
	}
	return nil
}

func (s *FileStore) ToggleBookmark(_ context.Context, courseID, subtopicID string) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		toggleBookmark(c, subtopicID)
		return nil
	})
}

func (s *FileStore) ToggleCompletion(_ context.Context, courseID, email, subtopicID string) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return toggleCompletion(c, email, subtopicID)
	})
}

func (s *FileStore) SetGrade(_ context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return setGrade(c, email, assessmentID, status)
	})
}

func (s *FileStore) SetAllGrades(_ context.Context, courseID, email string, status models.GradeStatus) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return setAllGrades(c, email, status)
	})
}

func (s *FileStore) SetAssessmentState(_ context.Context, courseID, assessmentID string, status models.AssessmentState, accessCode string) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return setAssessmentState(c, assessmentID, status, accessCode)
	})
}

func (s *FileStore) RecordSubmission(_ context.Context, courseID, email, assessmentID, filename string) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return recordSubmission(c, email, assessmentID, filename, time.Now().UTC())
	})
}

func (s *FileStore) ReplaceLearner(_ context.Context, courseID, email string, rec models.LearnerEnrollment) (models.Course, error) {
	return s.mutateCourse(courseID, func(c *models.Course) error {
		return replaceLearner(c, email, rec)
	})
}

func (s *FileStore) ListEvents(_ context.Context) ([]models.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Events), nil
}

func (s *FileStore) CreateEvent(_ context.Context, draft models.CalendarEvent) (models.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.ID = uuid.NewString()
	s.state.Events = append(s.state.Events, draft)
	if err := s.save(); err != nil {
		s.state.Events = s.state.Events[:len(s.state.Events)-1]
		return models.CalendarEvent{}, err
	}
	return draft, nil
}

func (s *FileStore) ReplaceEvent(_ context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Events {
		if s.state.Events[i].ID == event.ID {
			prev := s.state.Events[i]
			s.state.Events[i] = event
			if err := s.save(); err != nil {
				s.state.Events[i] = prev
				return models.CalendarEvent{}, err
			}
			return event, nil
		}
	}
	return models.CalendarEvent{}, fmt.Errorf("event %s: %w", event.ID, ErrNotFound)
}

func (s *FileStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Events {
		if s.state.Events[i].ID == id {
			prev := s.state.Events
			rest := make([]models.CalendarEvent, 0, len(prev)-1)
			rest = append(rest, prev[:i]...)
			rest = append(rest, prev[i+1:]...)
			s.state.Events = rest
			if err := s.save(); err != nil {
				s.state.Events = prev
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, ErrNotFound)
}

func (s *FileStore) ListGrants(_ context.Context) ([]models.GrantApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Grants), nil
}

func (s *FileStore) CreateGrant(_ context.Context, draft models.GrantApplication) (models.GrantApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.ID = uuid.NewString()
	if draft.Status == "" {
		draft.Status = models.ClaimPending
	}
	if draft.SubmittedAt.IsZero() {
		draft.SubmittedAt = time.Now().UTC()
	}
	s.state.Grants = append(s.state.Grants, draft)
	if err := s.save(); err != nil {
		s.state.Grants = s.state.Grants[:len(s.state.Grants)-1]
		return models.GrantApplication{}, err
	}
	return draft, nil
}

func (s *FileStore) SetGrantStatus(_ context.Context, id string, status models.ClaimStatus) (models.GrantApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Grants {
		if s.state.Grants[i].ID == id {
			prev := s.state.Grants[i].Status
			s.state.Grants[i].Status = status
			if err := s.save(); err != nil {
				s.state.Grants[i].Status = prev
				return models.GrantApplication{}, err
			}
			return s.state.Grants[i], nil
		}
	}
	return models.GrantApplication{}, fmt.Errorf("grant %s: %w", id, ErrNotFound)
}

func (s *FileStore) ListLearners(_ context.Context) ([]models.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Learners), nil
}

func (s *FileStore) CreateLearner(_ context.Context, profile models.LearnerProfile) (models.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Learners = append(s.state.Learners, profile)
	if err := s.save(); err != nil {
		s.state.Learners = s.state.Learners[:len(s.state.Learners)-1]
		return models.LearnerProfile{}, err
	}
	return profile, nil
}

func (s *FileStore) ListJobs(_ context.Context) ([]models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Jobs), nil
}
