package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

var testDate = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestSelector(t *testing.T) (*Selector, *db.Store) {
	t.Helper()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store), store
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func addTask(t *testing.T, store *db.Store, task *models.ScheduledTask) *models.ScheduledTask {
	t.Helper()
	require.NoError(t, store.CreateTask(task, nil))
	return task
}

func addPausedSession(t *testing.T, store *db.Store, desc string, started time.Time, estimate *int) *models.Session {
	t.Helper()
	sess := &models.Session{
		Description:     desc,
		State:           models.StatePaused,
		StartedAt:       started,
		EndedAt:         timePtr(started.Add(30 * time.Minute)),
		EstimateMinutes: estimate,
	}
	require.NoError(t, store.CreateSession(sess, nil))
	return sess
}

func TestDailyPlanEmptyStore(t *testing.T) {
	sel, _ := newTestSelector(t)

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	assert.Empty(t, plan.Items)
	assert.Equal(t, 0, plan.TotalMinutes)
	assert.Equal(t, DayMinutes, plan.RemainingMinutes)
}

func TestDailyPlanCategoryPrecedence(t *testing.T) {
	sel, store := newTestSelector(t)

	backlog := addTask(t, store, &models.ScheduledTask{
		Description: "backlog", Priority: models.DefaultPriority,
	})
	important := addTask(t, store, &models.ScheduledTask{
		Description: "important", Priority: 2,
	})
	urgent := addTask(t, store, &models.ScheduledTask{
		Description: "urgent", Priority: models.DefaultPriority,
		ScheduledAt: timePtr(testDate.Add(time.Hour)),
	})
	paused := addPausedSession(t, store, "unfinished", testDate.Add(-time.Hour), nil)

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	require.Len(t, plan.Items, 4)

	// Chains first, then urgent, then important, then backlog
	assert.Equal(t, KindSession, plan.Items[0].Kind)
	assert.Equal(t, paused.ID, plan.Items[0].ID)
	assert.Equal(t, 1, plan.Items[0].Priority)

	assert.Equal(t, urgent.ID, plan.Items[1].ID)
	assert.Equal(t, important.ID, plan.Items[2].ID)
	assert.Equal(t, backlog.ID, plan.Items[3].ID)
}

func TestDailyPlanDeduplicates(t *testing.T) {
	sel, store := newTestSelector(t)

	// Urgent AND important: must appear once, in the urgent slot
	both := addTask(t, store, &models.ScheduledTask{
		Description: "urgent and important", Priority: 1,
		ScheduledAt: timePtr(testDate.Add(time.Hour)),
	})
	other := addTask(t, store, &models.ScheduledTask{
		Description: "also important", Priority: 2,
	})

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, both.ID, plan.Items[0].ID)
	assert.Equal(t, other.ID, plan.Items[1].ID)
}

func TestDailyPlanHonorsLimit(t *testing.T) {
	sel, store := newTestSelector(t)

	for i := 0; i < 5; i++ {
		task := &models.ScheduledTask{Description: "backlog", Priority: models.DefaultPriority}
		task.CreatedAt = testDate.Add(time.Duration(i) * time.Minute)
		addTask(t, store, task)
	}

	plan, err := sel.DailyPlan(testDate, 3)
	require.NoError(t, err)
	assert.Len(t, plan.Items, 3)
}

func TestDailyPlanTotals(t *testing.T) {
	sel, store := newTestSelector(t)

	addTask(t, store, &models.ScheduledTask{
		Description: "estimated", Priority: models.DefaultPriority, EstimateMinutes: intPtr(200),
	})
	addTask(t, store, &models.ScheduledTask{
		Description: "unestimated", Priority: models.DefaultPriority,
	})

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	assert.Equal(t, 200, plan.TotalMinutes)
	assert.Equal(t, DayMinutes-200, plan.RemainingMinutes)
}

func TestDailyPlanRemainingNeverNegative(t *testing.T) {
	sel, store := newTestSelector(t)

	addTask(t, store, &models.ScheduledTask{
		Description: "huge", Priority: models.DefaultPriority, EstimateMinutes: intPtr(DayMinutes + 100),
	})

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.RemainingMinutes)
}

func TestDailyPlanChainAnnotations(t *testing.T) {
	sel, store := newTestSelector(t)

	root := addPausedSession(t, store, "long haul", testDate.Add(-3*time.Hour), intPtr(120))
	cont := &models.Session{
		Description:        "long haul",
		State:              models.StatePaused,
		StartedAt:          testDate.Add(-time.Hour),
		EndedAt:            timePtr(testDate.Add(-30 * time.Minute)),
		ContinuesSessionID: &root.ID,
	}
	require.NoError(t, store.CreateSession(cont, nil))

	plan, err := sel.DailyPlan(testDate, 0)
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)

	item := plan.Items[0]
	assert.Equal(t, KindSession, item.Kind)
	assert.Equal(t, cont.ID, item.ID) // latest member represents the chain
	assert.Equal(t, 2, item.ChainSessions)
	assert.Equal(t, 60, item.ChainMinutes) // two 30m spans
}

func TestAddTaskDefaultsAndValidation(t *testing.T) {
	sel, _ := newTestSelector(t)

	task, err := sel.AddTask(AddTaskInput{Description: "plain"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPriority, task.Priority)

	_, err = sel.AddTask(AddTaskInput{Description: "bad", Priority: 12})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = sel.AddTask(AddTaskInput{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestGetTaskPrefersScheduledTask(t *testing.T) {
	sel, store := newTestSelector(t)

	task := addTask(t, store, &models.ScheduledTask{Description: "scheduled", Priority: 3})

	item, err := sel.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, KindTask, item.Kind)
	assert.Equal(t, 3, item.Priority)
}

func TestGetTaskFallsBackToResumableSession(t *testing.T) {
	sel, store := newTestSelector(t)

	paused := addPausedSession(t, store, "resumable", testDate, nil)

	item, err := sel.GetTask(paused.ID)
	require.NoError(t, err)
	assert.Equal(t, KindSession, item.Kind)
	assert.Equal(t, paused.ID, item.ID)
}

func TestGetTaskRejectsTerminalSession(t *testing.T) {
	sel, store := newTestSelector(t)

	ended := testDate.Add(time.Hour)
	done := &models.Session{
		Description: "done", State: models.StateCompleted,
		StartedAt: testDate, EndedAt: &ended,
	}
	require.NoError(t, store.CreateSession(done, nil))

	_, err := sel.GetTask(done.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	_, err = sel.GetTask(9999)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestRemoveTaskDeletesTaskThenSession(t *testing.T) {
	sel, store := newTestSelector(t)

	task := addTask(t, store, &models.ScheduledTask{Description: "to remove", Priority: models.DefaultPriority})
	require.NoError(t, sel.RemoveTask(task.ID))
	loaded, err := store.TaskByID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	sess := addPausedSession(t, store, "to remove", testDate, nil)
	require.NoError(t, sel.RemoveTask(sess.ID))
	loadedSess, err := store.SessionByID(sess.ID)
	require.NoError(t, err)
	assert.Nil(t, loadedSess)

	err = sel.RemoveTask(9999)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestCompleteTaskDeletesScheduledTask(t *testing.T) {
	sel, store := newTestSelector(t)

	task := addTask(t, store, &models.ScheduledTask{Description: "finish me", Priority: models.DefaultPriority})
	require.NoError(t, sel.CompleteTask(task.ID, testDate, intPtr(25)))

	loaded, err := store.TaskByID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCompleteTaskFinishesSession(t *testing.T) {
	sel, store := newTestSelector(t)

	sess := addPausedSession(t, store, "finish me", testDate, nil)
	completedAt := testDate.Add(2 * time.Hour)
	require.NoError(t, sel.CompleteTask(sess.ID, completedAt, nil))

	loaded, err := store.SessionByID(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, loaded.State)
	require.NotNil(t, loaded.EndedAt)
	assert.True(t, loaded.EndedAt.Equal(completedAt))
}
