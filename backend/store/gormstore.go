package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tms/backend/models"
)

var _ RemoteStore = (*GormStore)(nil)

// GormStore keeps each collection in one table, with the nested course
// document held as a JSON payload column. Replace-whole-document semantics
// map directly onto a single row update.
type GormStore struct {
	db *gorm.DB
}

type courseRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

type eventRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

type grantRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

type learnerRecord struct {
	Email     string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	CreatedAt time.Time
}

type jobRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	CreatedAt time.Time
}

// NewGormStore migrates the backing tables and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&courseRecord{}, &eventRecord{}, &grantRecord{}, &learnerRecord{}, &jobRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %v: %w", err, ErrUnavailable)
	}
	return &GormStore{db: db}, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrUnavailable)
}

func marshalPayload(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %v: %w", err, ErrUnavailable)
	}
	return datatypes.JSON(data), nil
}

func (s *GormStore) loadCourse(ctx context.Context, id string) (models.Course, error) {
	var rec courseRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return models.Course{}, storeErr("course "+id, err)
	}
	var c models.Course
	if err := json.Unmarshal(rec.Payload, &c); err != nil {
		return models.Course{}, fmt.Errorf("decode course %s: %v: %w", id, err, ErrUnavailable)
	}
	return c, nil
}

func (s *GormStore) saveCourse(ctx context.Context, c models.Course) error {
	payload, err := marshalPayload(c)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&courseRecord{}).Where("id = ?", c.ID).Update("payload", payload)
	if res.Error != nil {
		return storeErr("course "+c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

// mutateCourse loads the document, applies fn and writes it back.
func (s *GormStore) mutateCourse(ctx context.Context, courseID string, fn func(*models.Course) error) (models.Course, error) {
	c, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if err := fn(&c); err != nil {
		return models.Course{}, err
	}
	if err := s.saveCourse(ctx, c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *GormStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var recs []courseRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, storeErr("list courses", err)
	}
	courses := make([]models.Course, 0, len(recs))
	for _, rec := range recs {
		var c models.Course
		if err := json.Unmarshal(rec.Payload, &c); err != nil {
			return nil, fmt.Errorf("decode course %s: %v: %w", rec.ID, err, ErrUnavailable)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, draft models.Course) (models.Course, error) {
	draft.ID = uuid.NewString()
	if draft.RunID == "" {
		draft.RunID = uuid.NewString()
	}
	payload, err := marshalPayload(draft)
	if err != nil {
		return models.Course{}, err
	}
	if err := s.db.WithContext(ctx).Create(&courseRecord{ID: draft.ID, Payload: payload}).Error; err != nil {
		return models.Course{}, storeErr("create course", err)
	}
	return draft, nil
}

func (s *GormStore) ReplaceCourse(ctx context.Context, course models.Course) (models.Course, error) {
	if err := s.saveCourse(ctx, course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (s *GormStore) DeleteCourse(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&courseRecord{}, "id = ?", id)
	if res.Error != nil {
		return storeErr("course "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) ToggleBookmark(ctx context.Context, courseID, subtopicID string) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		toggleBookmark(c, subtopicID)
		return nil
	})
}

func (s *GormStore) ToggleCompletion(ctx context.Context, courseID, email, subtopicID string) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return toggleCompletion(c, email, subtopicID)
	})
}

func (s *GormStore) SetGrade(ctx context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return setGrade(c, email, assessmentID, status)
	})
}

func (s *GormStore) SetAllGrades(ctx context.Context, courseID, email string, status models.GradeStatus) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return setAllGrades(c, email, status)
	})
}

func (s *GormStore) SetAssessmentState(ctx context.Context, courseID, assessmentID string, status models.AssessmentState, accessCode string) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return setAssessmentState(c, assessmentID, status, accessCode)
	})
}

func (s *GormStore) RecordSubmission(ctx context.Context, courseID, email, assessmentID, filename string) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return recordSubmission(c, email, assessmentID, filename, time.Now().UTC())
	})
}

func (s *GormStore) ReplaceLearner(ctx context.Context, courseID, email string, rec models.LearnerEnrollment) (models.Course, error) {
	return s.mutateCourse(ctx, courseID, func(c *models.Course) error {
		return replaceLearner(c, email, rec)
	})
}

func (s *GormStore) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var recs []eventRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, storeErr("list events", err)
	}
	events := make([]models.CalendarEvent, 0, len(recs))
	for _, rec := range recs {
		var e models.CalendarEvent
		if err := json.Unmarshal(rec.Payload, &e); err != nil {
			return nil, fmt.Errorf("decode event %s: %v: %w", rec.ID, err, ErrUnavailable)
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *GormStore) CreateEvent(ctx context.Context, draft models.CalendarEvent) (models.CalendarEvent, error) {
	draft.ID = uuid.NewString()
	payload, err := marshalPayload(draft)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	if err := s.db.WithContext(ctx).Create(&eventRecord{ID: draft.ID, Payload: payload}).Error; err != nil {
		return models.CalendarEvent{}, storeErr("create event", err)
	}
	return draft, nil
}

func (s *GormStore) ReplaceEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	payload, err := marshalPayload(event)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	res := s.db.WithContext(ctx).Model(&eventRecord{}).Where("id = ?", event.ID).Update("payload", payload)
	if res.Error != nil {
		return models.CalendarEvent{}, storeErr("event "+event.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CalendarEvent{}, fmt.Errorf("event %s: %w", event.ID, ErrNotFound)
	}
	return event, nil
}

func (s *GormStore) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&eventRecord{}, "id = ?", id)
	if res.Error != nil {
		return storeErr("event "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) ListGrants(ctx context.Context) ([]models.GrantApplication, error) {
	var recs []grantRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, storeErr("list grants", err)
	}
	grants := make([]models.GrantApplication, 0, len(recs))
	for _, rec := range recs {
		var g models.GrantApplication
		if err := json.Unmarshal(rec.Payload, &g); err != nil {
			return nil, fmt.Errorf("decode grant %s: %v: %w", rec.ID, err, ErrUnavailable)
		}
		grants = append(grants, g)
	}
	return grants, nil
}

func (s *GormStore) CreateGrant(ctx context.Context, draft models.GrantApplication) (models.GrantApplication, error) {
	draft.ID = uuid.NewString()
	if draft.Status == "" {
		draft.Status = models.ClaimPending
	}
	if draft.SubmittedAt.IsZero() {
		draft.SubmittedAt = time.Now().UTC()
	}
	payload, err := marshalPayload(draft)
	if err != nil {
		return models.GrantApplication{}, err
	}
	if err := s.db.WithContext(ctx).Create(&grantRecord{ID: draft.ID, Payload: payload}).Error; err != nil {
		return models.GrantApplication{}, storeErr("create grant", err)
	}
	return draft, nil
}

func (s *GormStore) SetGrantStatus(ctx context.Context, id string, status models.ClaimStatus) (models.GrantApplication, error) {
	var rec grantRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return models.GrantApplication{}, storeErr("grant "+id, err)
	}
	var g models.GrantApplication
	if err := json.Unmarshal(rec.Payload, &g); err != nil {
		return models.GrantApplication{}, fmt.Errorf("decode grant %s: %v: %w", id, err, ErrUnavailable)
	}
	g.Status = status
	payload, err := marshalPayload(g)
	if err != nil {
		return models.GrantApplication{}, err
	}
	if err := s.db.WithContext(ctx).Model(&grantRecord{}).Where("id = ?", id).Update("payload", payload).Error; err != nil {
		return models.GrantApplication{}, storeErr("grant "+id, err)
	}
	return g, nil
}

func (s *GormStore) ListLearners(ctx context.Context) ([]models.LearnerProfile, error) {
	var recs []learnerRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, storeErr("list learners", err)
	}
	learners := make([]models.LearnerProfile, 0, len(recs))
	for _, rec := range recs {
		var p models.LearnerProfile
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode learner %s: %v: %w", rec.Email, err, ErrUnavailable)
		}
		learners = append(learners, p)
	}
	return learners, nil
}

func (s *GormStore) CreateLearner(ctx context.Context, profile models.LearnerProfile) (models.LearnerProfile, error) {
	payload, err := marshalPayload(profile)
	if err != nil {
		return models.LearnerProfile{}, err
	}
	if err := s.db.WithContext(ctx).Create(&learnerRecord{Email: profile.Email, Payload: payload}).Error; err != nil {
		return models.LearnerProfile{}, storeErr("create learner", err)
	}
	return profile, nil
}

func (s *GormStore) ListJobs(ctx context.Context) ([]models.JobPosting, error) {
	var recs []jobRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, storeErr("list jobs", err)
	}
	jobs := make([]models.JobPosting, 0, len(recs))
	for _, rec := range recs {
		var j models.JobPosting
		if err := json.Unmarshal(rec.Payload, &j); err != nil {
			return nil, fmt.Errorf("decode job %s: %v: %w", rec.ID, err, ErrUnavailable)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
