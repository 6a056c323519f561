// Package sync holds the client-side state container that keeps an in-memory
// cache of the training collections consistent with the remote store. Writes
// are confirm-then-commit: the store is called first, and only its
// authoritative response is applied to the cache, so a failed call can never
// corrupt cached state.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"tms/backend/models"
	"tms/backend/store"
)

// Core caches the courses, events, grants, learner registry and job postings
// collections, plus a "selected course" mirror for detail views and an
// unsaved "editing course" draft for the editor.
//
// Two in-flight writes against the same course are not serialized; whichever
// response arrives last determines that course's cache slot.
type Core struct {
	store store.RemoteStore

	mu       sync.RWMutex
	courses  []models.Course
	events   []models.CalendarEvent
	grants   []models.GrantApplication
	learners []models.LearnerProfile
	jobs     []models.JobPosting
	selected *models.Course
	editing  *models.Course
	loading  bool
}

func NewCore(st store.RemoteStore) *Core {
	return &Core{store: st}
}

// copyOf deep-copies a value through its JSON form so callers never alias
// cached slices.
func copyOf[T any](v T) T {
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

// applyCourse replaces the cached course with the same id and refreshes the
// selected-course mirror when it points at that id. No other slots change.
func (c *Core) applyCourse(updated models.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == updated.ID {
			c.courses[i] = updated
			break
		}
	}
	if c.selected != nil && c.selected.ID == updated.ID {
		mirror := copyOf(updated)
		c.selected = &mirror
	}
}

// Refresh replaces every cached collection from the store. The fetches run
// concurrently and the caches are swapped together, so consumers never see a
// partially refreshed state.
func (c *Core) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	var (
		courses  []models.Course
		events   []models.CalendarEvent
		grants   []models.GrantApplication
		learners []models.LearnerProfile
		jobs     []models.JobPosting
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { courses, err = c.store.ListCourses(gctx); return })
	g.Go(func() (err error) { events, err = c.store.ListEvents(gctx); return })
	g.Go(func() (err error) { grants, err = c.store.ListGrants(gctx); return })
	g.Go(func() (err error) { learners, err = c.store.ListLearners(gctx); return })
	g.Go(func() (err error) { jobs, err = c.store.ListJobs(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = courses
	c.events = events
	c.grants = grants
	c.learners = learners
	c.jobs = jobs
	return nil
}

// Loading reports whether a Refresh is in flight.
func (c *Core) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Reset drops every cache and mirror. Used on logout.
func (c *Core) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = nil
	c.events = nil
	c.grants = nil
	c.learners = nil
	c.jobs = nil
	c.selected = nil
	c.editing = nil
}

func (c *Core) Courses() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.courses)
}

func (c *Core) Events() []models.CalendarEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.events)
}

func (c *Core) Grants() []models.GrantApplication {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.grants)
}

func (c *Core) Learners() []models.LearnerProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.learners)
}

func (c *Core) Jobs() []models.JobPosting {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.jobs)
}

// Course returns the cached course by id.
func (c *Core) Course(id string) (models.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.courses {
		if c.courses[i].ID == id {
			return copyOf(c.courses[i]), true
		}
	}
	return models.Course{}, false
}

// SelectCourse points the detail-view mirror at the cached course with the
// given id.
func (c *Core) SelectCourse(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == id {
			mirror := copyOf(c.courses[i])
			c.selected = &mirror
			return nil
		}
	}
	return fmt.Errorf("course %s: %w", id, store.ErrNotFound)
}

// SelectedCourse returns a copy of the mirror, or nil when nothing is
// selected.
func (c *Core) SelectedCourse() *models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return nil
	}
	mirror := copyOf(*c.selected)
	return &mirror
}

func (c *Core) ClearSelectedCourse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// SetEditingCourse stores a local unsaved draft for the editor. It is never
// synced until the caller saves it through UpdateCourse.
func (c *Core) SetEditingCourse(course *models.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if course == nil {
		c.editing = nil
		return
	}
	draft := copyOf(*course)
	c.editing = &draft
}

func (c *Core) EditingCourse() *models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editing == nil {
		return nil
	}
	draft := copyOf(*c.editing)
	return &draft
}

// AddCourse creates the draft remotely and appends the created entity, with
// its server-assigned id, to the cache.
func (c *Core) AddCourse(ctx context.Context, draft models.Course) (models.Course, error) {
	created, err := c.store.CreateCourse(ctx, draft)
	if err != nil {
		return models.Course{}, err
	}
	c.mu.Lock()
	c.courses = append(c.courses, created)
	c.mu.Unlock()
	return copyOf(created), nil
}

// UpdateCourse replaces the whole document remotely and in the cache.
func (c *Core) UpdateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	updated, err := c.store.ReplaceCourse(ctx, course)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// DeleteCourse deletes remotely, then drops the cache entry and the mirror
// when it pointed at the deleted course.
func (c *Core) DeleteCourse(ctx context.Context, id string) error {
	if err := c.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == id {
			c.courses = append(c.courses[:i], c.courses[i+1:]...)
			break
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	return nil
}

// AddQuiz attaches a generated quiz to a course via whole-document replace.
func (c *Core) AddQuiz(ctx context.Context, courseID string, quiz models.Quiz) (models.Course, error) {
	course, ok := c.Course(courseID)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s: %w", courseID, store.ErrNotFound)
	}
	course.Quiz = &quiz
	return c.UpdateCourse(ctx, course)
}

// Enroll marks a course enrolled for the current viewer.
func (c *Core) Enroll(ctx context.Context, courseID string) (models.Course, error) {
	course, ok := c.Course(courseID)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s: %w", courseID, store.ErrNotFound)
	}
	course.Enrolled = true
	return c.UpdateCourse(ctx, course)
}

// ToggleBookmark flips the subtopic's membership in the course bookmark set.
func (c *Core) ToggleBookmark(ctx context.Context, courseID, subtopicID string) (models.Course, error) {
	updated, err := c.store.ToggleBookmark(ctx, courseID, subtopicID)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// ToggleCompletion flips the subtopic in the learner's completed set; the
// store recomputes the progress percentage.
func (c *Core) ToggleCompletion(ctx context.Context, courseID, email, subtopicID string) (models.Course, error) {
	updated, err := c.store.ToggleCompletion(ctx, courseID, email, subtopicID)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// SetGrade sets one learner's grade for one assessment.
func (c *Core) SetGrade(ctx context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error) {
	updated, err := c.store.SetGrade(ctx, courseID, email, assessmentID, status)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// SetAllGrades overwrites every grade for the learner with the same status.
func (c *Core) SetAllGrades(ctx context.Context, courseID, email string, status models.GradeStatus) (models.Course, error) {
	updated, err := c.store.SetAllGrades(ctx, courseID, email, status)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// SetAssessmentState publishes or unpublishes an assessment definition,
// optionally setting its access code.
func (c *Core) SetAssessmentState(ctx context.Context, courseID, assessmentID string, status models.AssessmentState, accessCode string) (models.Course, error) {
	updated, err := c.store.SetAssessmentState(ctx, courseID, assessmentID, status, accessCode)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// Submit records a submission, replacing any prior one for the same
// (learner, assessment) pair.
func (c *Core) Submit(ctx context.Context, courseID, email, assessmentID, filename string) (models.Course, error) {
	updated, err := c.store.RecordSubmission(ctx, courseID, email, assessmentID, filename)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// UpdateLearnerDetail replaces one roster entry's whole record.
func (c *Core) UpdateLearnerDetail(ctx context.Context, courseID, email string, rec models.LearnerEnrollment) (models.Course, error) {
	updated, err := c.store.ReplaceLearner(ctx, courseID, email, rec)
	if err != nil {
		return models.Course{}, err
	}
	c.applyCourse(updated)
	return copyOf(updated), nil
}

// SetGrantStatus updates one grant remotely, then re-fetches the whole grants
// collection: a status change can have server-side side effects the mutator's
// return value does not carry.
func (c *Core) SetGrantStatus(ctx context.Context, id string, status models.ClaimStatus) error {
	if _, err := c.store.SetGrantStatus(ctx, id, status); err != nil {
		return err
	}
	grants, err := c.store.ListGrants(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.grants = grants
	c.mu.Unlock()
	return nil
}

// AddLearnerToRegistry appends a profile to the registry unless one with the
// same email is already cached. The dedup is a client-side check only.
func (c *Core) AddLearnerToRegistry(ctx context.Context, profile models.LearnerProfile) error {
	c.mu.RLock()
	for i := range c.learners {
		if c.learners[i].Email == profile.Email {
			c.mu.RUnlock()
			return nil
		}
	}
	c.mu.RUnlock()

	created, err := c.store.CreateLearner(ctx, profile)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.learners = append(c.learners, created)
	c.mu.Unlock()
	return nil
}

// EnrollInRoster copies the registry profile into the course roster and
// replaces the whole document remotely. The roster entry is a copy; later
// edits to it never propagate back to the registry.
func (c *Core) EnrollInRoster(ctx context.Context, courseID, email string) (models.Course, error) {
	c.mu.RLock()
	var profile *models.LearnerProfile
	for i := range c.learners {
		if c.learners[i].Email == email {
			p := c.learners[i]
			profile = &p
			break
		}
	}
	c.mu.RUnlock()
	if profile == nil {
		return models.Course{}, fmt.Errorf("learner %s: %w", email, store.ErrNotFound)
	}

	course, ok := c.Course(courseID)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s: %w", courseID, store.ErrNotFound)
	}
	if course.Learner(email) != nil {
		return course, nil
	}
	course.Learners = append(course.Learners, profile.Enrollment())
	return c.UpdateCourse(ctx, course)
}

// UnenrollFromRoster removes the roster entry by email and replaces the whole
// document remotely. The registry entry is untouched.
func (c *Core) UnenrollFromRoster(ctx context.Context, courseID, email string) (models.Course, error) {
	course, ok := c.Course(courseID)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s: %w", courseID, store.ErrNotFound)
	}
	found := false
	for i := range course.Learners {
		if course.Learners[i].Email == email {
			course.Learners = append(course.Learners[:i], course.Learners[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return models.Course{}, fmt.Errorf("learner %s: %w", email, store.ErrNotFound)
	}
	return c.UpdateCourse(ctx, course)
}
