package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/internal/clienttest"
)

type fakeGuard struct {
	token       string
	invalidated bool
}

func (g *fakeGuard) Token() string { return g.token }

func (g *fakeGuard) User() *domain.User { return nil }

func (g *fakeGuard) UpdateUser(user domain.User) error { return nil }

func (g *fakeGuard) Invalidate() { g.invalidated = true; g.token = "" }

func TestListReplacesSnapshot(t *testing.T) {
	api := &clienttest.Fake{ListRet: []domain.Task{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
	}}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	tasks, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, tasks, uc.Snapshot())

	// idempotent without intervening mutations
	again, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, tasks, again)
}

func TestCreateValidationNeverDispatches(t *testing.T) {
	api := &clienttest.Fake{}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	_, err := uc.Create(context.Background(), domain.TaskDraft{Title: "   "})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Zero(t, api.CallCount("create"))
	require.Zero(t, api.CallCount("list"))
}

func TestCreateRefreshesAfterMutation(t *testing.T) {
	api := &clienttest.Fake{CreateMsg: "Todo created successfully."}
	api.ListFn = func() ([]domain.Task, error) {
		return []domain.Task{{ID: 42, Title: "Buy milk", Priority: domain.PriorityLow, DueDate: "2024-05-01"}}, nil
	}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	tasks, err := uc.Create(context.Background(), domain.TaskDraft{
		Title:    "Buy milk",
		Priority: "low",
		DueDate:  "2024-05-01",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"create", "list"}, api.Calls)
	require.Len(t, tasks, 1)
	require.Equal(t, int64(42), tasks[0].ID)
	require.Equal(t, "Buy milk", tasks[0].Title)

	require.Equal(t, "Buy milk", api.LastCreateReq.Title)
	require.Equal(t, domain.PriorityLow, api.LastCreateReq.Priority)
	require.Equal(t, "2024-05-01", api.LastCreateReq.DueDate)
}

func TestToggleSendsOnlyCompleted(t *testing.T) {
	api := &clienttest.Fake{UpdateTaskMsg: "Todo updated successfully."}
	api.ListRet = []domain.Task{{ID: 7, Title: "x", Completed: true}}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	tasks, err := uc.ToggleCompleted(context.Background(), domain.Task{ID: 7, Completed: false})
	require.NoError(t, err)
	require.Equal(t, int64(7), api.LastTaskID)

	req := api.LastTaskReq
	require.Nil(t, req.Title)
	require.Nil(t, req.Description)
	require.Nil(t, req.Priority)
	require.Nil(t, req.DueDate)
	require.NotNil(t, req.Completed)
	require.True(t, *req.Completed)

	require.True(t, tasks[0].Completed)
}

func TestDeleteRejectionSkipsRefresh(t *testing.T) {
	api := &clienttest.Fake{
		DeleteErr: domain.Rejection("Todo not found."),
		ListRet:   []domain.Task{{ID: 1, Title: "keep"}},
	}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	_, err := uc.List(context.Background())
	require.NoError(t, err)
	listCalls := api.CallCount("list")

	_, err = uc.Delete(context.Background(), 999)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
	require.Equal(t, listCalls, api.CallCount("list"))

	// snapshot untouched
	require.Equal(t, []domain.Task{{ID: 1, Title: "keep"}}, uc.Snapshot())
}

func TestDeleteSuccessRefreshes(t *testing.T) {
	api := &clienttest.Fake{}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	_, err := uc.Delete(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []string{"delete", "list"}, api.Calls)
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	guard := &fakeGuard{token: "T1"}
	api := &clienttest.Fake{ListErr: domain.ErrSessionInvalid}
	uc := New(api, guard, nil)

	_, err := uc.List(context.Background())
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	require.True(t, guard.invalidated)
}

func TestOperationsRequireSession(t *testing.T) {
	api := &clienttest.Fake{}
	uc := New(api, &fakeGuard{}, nil)

	_, err := uc.List(context.Background())
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	_, err = uc.Create(context.Background(), domain.TaskDraft{Title: "x"})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	require.Empty(t, api.Calls)
}

func TestUpdateValidatesPatch(t *testing.T) {
	api := &clienttest.Fake{}
	uc := New(api, &fakeGuard{token: "T1"}, nil)

	bad := "urgent"
	_, err := uc.Update(context.Background(), 1, domain.TaskPatch{Priority: &bad})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Empty(t, api.Calls)
}
