package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/backend/models"
	"tms/backend/store"
)

// failingStore wraps a working store and makes selected writes fail.
type failingStore struct {
	store.RemoteStore
	failWrites bool
}

func (f *failingStore) ReplaceCourse(ctx context.Context, course models.Course) (models.Course, error) {
	if f.failWrites {
		return models.Course{}, store.ErrUnavailable
	}
	return f.RemoteStore.ReplaceCourse(ctx, course)
}

func (f *failingStore) SetGrade(ctx context.Context, courseID, email, assessmentID string, status models.GradeStatus) (models.Course, error) {
	if f.failWrites {
		return models.Course{}, store.ErrUnavailable
	}
	return f.RemoteStore.SetGrade(ctx, courseID, email, assessmentID, status)
}

func newTestCore(t *testing.T) (*Core, *failingStore) {
	t.Helper()
	fs, err := store.NewFileStore("")
	require.NoError(t, err)
	flaky := &failingStore{RemoteStore: fs}
	core := NewCore(flaky)
	require.NoError(t, core.Refresh(context.Background()))
	return core, flaky
}

func TestRefreshPopulatesAllCaches(t *testing.T) {
	core, _ := newTestCore(t)

	assert.NotEmpty(t, core.Courses())
	assert.NotEmpty(t, core.Events())
	assert.NotEmpty(t, core.Grants())
	assert.NotEmpty(t, core.Learners())
	assert.NotEmpty(t, core.Jobs())
	assert.False(t, core.Loading())
}

func TestAddCourseAppendsWithServerID(t *testing.T) {
	core, _ := newTestCore(t)
	before := len(core.Courses())

	created, err := core.AddCourse(context.Background(), models.Course{Title: "Crane Signals"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	courses := core.Courses()
	assert.Len(t, courses, before+1)
	_, ok := core.Course(created.ID)
	assert.True(t, ok)
}

func TestUpdateCourseReplacesExactlyOneEntry(t *testing.T) {
	core, _ := newTestCore(t)
	before := core.Courses()

	target, ok := core.Course("crs-101")
	require.True(t, ok)
	target.Title = "Food Safety Level 1 (Rev 2)"

	updated, err := core.UpdateCourse(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, "Food Safety Level 1 (Rev 2)", updated.Title)

	after := core.Courses()
	require.Equal(t, len(before), len(after))
	matches := 0
	for i, c := range after {
		if c.ID == "crs-101" {
			matches++
			assert.Equal(t, updated, c)
		} else {
			assert.Equal(t, before[i], c)
		}
	}
	assert.Equal(t, 1, matches)
}

func TestFailedWriteLeavesCacheUntouched(t *testing.T) {
	core, flaky := newTestCore(t)
	before := core.Courses()

	flaky.failWrites = true
	target := before[0]
	target.Title = "Should not stick"
	_, err := core.UpdateCourse(context.Background(), target)
	require.ErrorIs(t, err, store.ErrUnavailable)

	assert.Equal(t, before, core.Courses())
}

func TestDeleteCourseDropsEntryAndSelection(t *testing.T) {
	core, _ := newTestCore(t)
	require.NoError(t, core.SelectCourse("crs-102"))

	require.NoError(t, core.DeleteCourse(context.Background(), "crs-102"))
	_, ok := core.Course("crs-102")
	assert.False(t, ok)
	assert.Nil(t, core.SelectedCourse())
}

func TestSelectedCourseMirrorsMutations(t *testing.T) {
	core, _ := newTestCore(t)
	require.NoError(t, core.SelectCourse("crs-101"))

	updated, err := core.ToggleBookmark(context.Background(), "crs-101", "st1")
	require.NoError(t, err)

	mirror := core.SelectedCourse()
	require.NotNil(t, mirror)
	assert.Equal(t, updated, *mirror)

	cached, ok := core.Course("crs-101")
	require.True(t, ok)
	assert.Equal(t, cached, *mirror)
}

func TestMirrorUntouchedForOtherCourses(t *testing.T) {
	core, _ := newTestCore(t)
	require.NoError(t, core.SelectCourse("crs-102"))
	before := core.SelectedCourse()

	_, err := core.ToggleBookmark(context.Background(), "crs-101", "st1")
	require.NoError(t, err)

	assert.Equal(t, before, core.SelectedCourse())
}

func TestToggleBookmarkScenario(t *testing.T) {
	core, _ := newTestCore(t)

	c, err := core.ToggleBookmark(context.Background(), "crs-102", "st9")
	require.NoError(t, err)
	assert.Equal(t, []string{"st9"}, c.BookmarkedSubtopics)

	c, err = core.ToggleBookmark(context.Background(), "crs-102", "st9")
	require.NoError(t, err)
	assert.Empty(t, c.BookmarkedSubtopics)
}

func TestMutatorReturnValueDoesNotAliasCache(t *testing.T) {
	core, _ := newTestCore(t)

	returned, err := core.ToggleBookmark(context.Background(), "crs-101", "st1")
	require.NoError(t, err)
	require.Equal(t, []string{"st1"}, returned.BookmarkedSubtopics)

	// Writing through the returned value must not reach the cached entry.
	returned.BookmarkedSubtopics[0] = "tampered"
	returned.Topics = nil

	cached, ok := core.Course("crs-101")
	require.True(t, ok)
	assert.Equal(t, []string{"st1"}, cached.BookmarkedSubtopics)
	assert.NotEmpty(t, cached.Topics)
}

func TestEnrollAndUnenrollRoster(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.AddLearnerToRegistry(ctx, models.LearnerProfile{Name: "Alice", Email: "alice@example.com"}))
	registrySize := len(core.Learners())

	c, err := core.EnrollInRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)
	require.Len(t, c.Learners, 1)
	assert.Equal(t, "Alice", c.Learners[0].Name)

	// Enrolling twice is a no-op.
	c, err = core.EnrollInRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, c.Learners, 1)

	c, err = core.UnenrollFromRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, c.Learners)
	assert.Len(t, core.Learners(), registrySize)

	_, err = core.EnrollInRoster(ctx, "crs-101", "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRosterEntryIsACopy(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.AddLearnerToRegistry(ctx, models.LearnerProfile{Name: "Alice", Email: "alice@example.com"}))
	_, err := core.EnrollInRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)

	rec := models.LearnerEnrollment{Name: "Alice Renamed", Email: "alice@example.com"}
	_, err = core.UpdateLearnerDetail(ctx, "crs-101", "alice@example.com", rec)
	require.NoError(t, err)

	// The registry entry keeps the original name.
	for _, p := range core.Learners() {
		if p.Email == "alice@example.com" {
			assert.Equal(t, "Alice", p.Name)
		}
	}
	c, ok := core.Course("crs-101")
	require.True(t, ok)
	assert.Equal(t, "Alice Renamed", c.Learner("alice@example.com").Name)
}

func TestAddLearnerToRegistryDedup(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()
	before := len(core.Learners())

	// weiming@example.com is already in the seed registry.
	require.NoError(t, core.AddLearnerToRegistry(ctx, models.LearnerProfile{Name: "Dup", Email: "weiming@example.com"}))
	assert.Len(t, core.Learners(), before)
}

func TestSetGrantStatusRefetchesGrants(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.SetGrantStatus(ctx, "grt-1", models.ClaimSuccess))
	for _, g := range core.Grants() {
		if g.ID == "grt-1" {
			assert.Equal(t, models.ClaimSuccess, g.Status)
		}
	}

	err := core.SetGrantStatus(ctx, "missing", models.ClaimFailed)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGradeFlowThroughCore(t *testing.T) {
	core, flaky := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.AddLearnerToRegistry(ctx, models.LearnerProfile{Name: "Alice", Email: "alice@example.com"}))
	_, err := core.EnrollInRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)

	c, err := core.SetGrade(ctx, "crs-101", "alice@example.com", "a1", models.GradeCompetent)
	require.NoError(t, err)
	require.Len(t, c.Learner("alice@example.com").Grades, 1)

	c, err = core.SetAllGrades(ctx, "crs-101", "alice@example.com", models.GradeNotYetCompetent)
	require.NoError(t, err)
	grades := c.Learner("alice@example.com").Grades
	require.Len(t, grades, 2)
	assert.Equal(t, models.GradeNotYetCompetent, models.OverallGrade(grades))

	// A failing grade write changes nothing.
	before := core.Courses()
	flaky.failWrites = true
	_, err = core.SetGrade(ctx, "crs-101", "alice@example.com", "a1", models.GradeCompetent)
	require.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, before, core.Courses())
}

func TestSubmitReplacesPrior(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.AddLearnerToRegistry(ctx, models.LearnerProfile{Name: "Alice", Email: "alice@example.com"}))
	_, err := core.EnrollInRoster(ctx, "crs-101", "alice@example.com")
	require.NoError(t, err)

	_, err = core.Submit(ctx, "crs-101", "alice@example.com", "a1", "v1.pdf")
	require.NoError(t, err)
	c, err := core.Submit(ctx, "crs-101", "alice@example.com", "a1", "v2.pdf")
	require.NoError(t, err)

	subs := c.Learner("alice@example.com").Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, "v2.pdf", subs[0].Filename)
}

func TestAddQuizAndEnrollFlags(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	quiz := models.Quiz{Title: "Hygiene Check", Questions: []models.QuizQuestion{{Question: "Wash hands when?", Options: []string{"Before prep", "Never"}, Answer: 0}}}
	c, err := core.AddQuiz(ctx, "crs-101", quiz)
	require.NoError(t, err)
	require.NotNil(t, c.Quiz)
	assert.Equal(t, "Hygiene Check", c.Quiz.Title)

	c, err = core.Enroll(ctx, "crs-101")
	require.NoError(t, err)
	assert.True(t, c.Enrolled)
}

func TestEditingCourseDraftStaysLocal(t *testing.T) {
	core, _ := newTestCore(t)

	course, ok := core.Course("crs-101")
	require.True(t, ok)
	course.Title = "Unsaved draft title"
	core.SetEditingCourse(&course)

	cached, _ := core.Course("crs-101")
	assert.NotEqual(t, "Unsaved draft title", cached.Title)

	draft := core.EditingCourse()
	require.NotNil(t, draft)
	assert.Equal(t, "Unsaved draft title", draft.Title)

	core.SetEditingCourse(nil)
	assert.Nil(t, core.EditingCourse())
}

func TestSessionLifecycle(t *testing.T) {
	fs, err := store.NewFileStore("")
	require.NoError(t, err)
	core := NewCore(fs)
	session := NewSession(core)

	assert.False(t, session.LoggedIn())
	require.NoError(t, session.Login(context.Background(), models.RoleTrainer))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, models.RoleTrainer, session.Role())
	assert.NotEmpty(t, core.Courses())

	// Role switch without re-login.
	session.SetRole(models.RoleAdmin)
	assert.Equal(t, models.RoleAdmin, session.Role())

	session.Logout()
	assert.False(t, session.LoggedIn())
	assert.Empty(t, session.Role())
	assert.Empty(t, core.Courses())
	assert.Nil(t, core.SelectedCourse())
}
