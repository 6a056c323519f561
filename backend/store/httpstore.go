package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tms/backend/models"
)

var _ RemoteStore = (*HTTPStore)(nil)

// HTTPStore talks to the REST API. It is interchangeable with the file and
// GORM stores; the sync core cannot tell which one it is given.
type HTTPStore struct {
	base   string
	client *http.Client
	token  string
}

// NewHTTPStore returns a store for the API at base, e.g. "http://host:8080".
func NewHTTPStore(base string) *HTTPStore {
	return &HTTPStore{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (s *HTTPStore) SetToken(token string) {
	s.token = token
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do runs one request and decodes the response into out (when non-nil).
// 404 maps to ErrNotFound; any other failure maps to ErrUnavailable.
func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s %s: encode body: %v: %w", method, path, err, ErrUnavailable)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base+path, &buf)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrUnavailable)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s %s: %s: %w", method, path, msg, ErrNotFound)
		}
		return fmt.Errorf("%s %s: status %d: %s: %w", method, path, resp.StatusCode, msg, ErrUnavailable)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %v: %w", method, path, err, ErrUnavailable)
	}
	return nil
}

func (s *HTTPStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.do(ctx, http.MethodGet, "/api/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *HTTPStore) CreateCourse(ctx context.Context, draft models.Course) (models.Course, error) {
	var c models.Course
	if err := s.do(ctx, http.MethodPost, "/api/courses", draft, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) ReplaceCourse(ctx context.Context, course models.Course) (models.Course, error) {
	var c models.Course
	if err := s.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(course.ID), course, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) DeleteCourse(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/courses/"+url.PathEscape(id), nil, nil)
}

func (s *HTTPStore) coursePath(courseID string, parts ...string) string {
	p := "/api/courses/" + url.PathEscape(courseID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (s *HTTPStore) ToggleBookmark(ctx context.Context, courseID, subtopicID string) (models.Course, error) {
	var c models.Course
	if err := s.do(ctx, http.MethodPost, s.coursePath(courseID, "bookmarks", subtopicID), nil, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) ToggleCompletion(ctx context.Context, courseID, email, subtopicID string) (models.Course, error) {
	var c models.Course
	if err := s.do(ctx, http.MethodPost, s.coursePath(courseID, "learners", email, "completions", subtopicID), nil, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) SetGrade(ctx context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error) {
	var c models.Course
	body := map[string]models.GradeStatus{"status": status}
	if err := s.do(ctx, http.MethodPut, s.coursePath(courseID, "learners", email, "assessments", assessmentID, "grade"), body, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) SetAllGrades(ctx context.Context, courseID, email string, status models.GradeStatus) (models.Course, error) {
	var c models.Course
	body := map[string]models.GradeStatus{"status": status}
	if err := s.do(ctx, http.MethodPut, s.coursePath(courseID, "learners", email, "grades"), body, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) SetAssessmentState(ctx context.Context, courseID, assessmentID string, status models.AssessmentState, accessCode string) (models.Course, error) {
	var c models.Course
	body := map[string]string{"status": string(status), "access_code": accessCode}
	if err := s.do(ctx, http.MethodPut, s.coursePath(courseID, "assessments", assessmentID, "state"), body, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) RecordSubmission(ctx context.Context, courseID, email, assessmentID, filename string) (models.Course, error) {
	var c models.Course
	body := map[string]string{"filename": filename}
	if err := s.do(ctx, http.MethodPost, s.coursePath(courseID, "learners", email, "assessments", assessmentID, "submission"), body, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) ReplaceLearner(ctx context.Context, courseID, email string, rec models.LearnerEnrollment) (models.Course, error) {
	var c models.Course
	if err := s.do(ctx, http.MethodPut, s.coursePath(courseID, "learners", email), rec, &c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *HTTPStore) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := s.do(ctx, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *HTTPStore) CreateEvent(ctx context.Context, draft models.CalendarEvent) (models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := s.do(ctx, http.MethodPost, "/api/events", draft, &e); err != nil {
		return models.CalendarEvent{}, err
	}
	return e, nil
}

func (s *HTTPStore) ReplaceEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := s.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(event.ID), event, &e); err != nil {
		return models.CalendarEvent{}, err
	}
	return e, nil
}

func (s *HTTPStore) DeleteEvent(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
}

func (s *HTTPStore) ListGrants(ctx context.Context) ([]models.GrantApplication, error) {
	var grants []models.GrantApplication
	if err := s.do(ctx, http.MethodGet, "/api/grants", nil, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *HTTPStore) CreateGrant(ctx context.Context, draft models.GrantApplication) (models.GrantApplication, error) {
	var g models.GrantApplication
	if err := s.do(ctx, http.MethodPost, "/api/grants", draft, &g); err != nil {
		return models.GrantApplication{}, err
	}
	return g, nil
}

func (s *HTTPStore) SetGrantStatus(ctx context.Context, id string, status models.ClaimStatus) (models.GrantApplication, error) {
	var g models.GrantApplication
	body := map[string]models.ClaimStatus{"status": status}
	if err := s.do(ctx, http.MethodPut, "/api/grants/"+url.PathEscape(id)+"/status", body, &g); err != nil {
		return models.GrantApplication{}, err
	}
	return g, nil
}

func (s *HTTPStore) ListLearners(ctx context.Context) ([]models.LearnerProfile, error) {
	var learners []models.LearnerProfile
	if err := s.do(ctx, http.MethodGet, "/api/learners", nil, &learners); err != nil {
		return nil, err
	}
	return learners, nil
}

func (s *HTTPStore) CreateLearner(ctx context.Context, profile models.LearnerProfile) (models.LearnerProfile, error) {
	var p models.LearnerProfile
	if err := s.do(ctx, http.MethodPost, "/api/learners", profile, &p); err != nil {
		return models.LearnerProfile{}, err
	}
	return p, nil
}

func (s *HTTPStore) ListJobs(ctx context.Context) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	if err := s.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
