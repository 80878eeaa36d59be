package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTaskHandler_Create(t *testing.T) {
	who := newCaller()
	svc := new(mockTaskService)
	h := NewTaskHandler(svc)
	r := newTestRouter(&who)
	r.POST("/tasks", h.Create)

	clientID := uuid.New()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in work.CreateTaskInput) bool {
		return in.TenantID == who.tenantID && in.CreatedBy == who.userID && in.Title == "Landing page" &&
			in.ClientID != nil && *in.ClientID == clientID &&
			in.DueDate != nil && in.DueDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&work.TaskDTO{ID: uuid.New(), Title: "Landing page", Status: "pending"}, nil)

	rec := doJSON(t, r, http.MethodPost, "/tasks", CreateTaskRequest{Title: "Landing page", ClientID: &clientID, DueDate: "2026-03-01"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", decodeData[work.TaskDTO](t, rec).Status)
	svc.AssertExpectations(t)
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	who := newCaller()
	svc := new(mockTaskService)
	h := NewTaskHandler(svc)
	r := newTestRouter(&who)
	r.POST("/tasks", h.Create)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"description":"x"}`},
		{"bad due date", `{"title":"x","due_date":"03/01/2026"}`},
		{"negative estimate", `{"title":"x","estimated_time":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, dto.ErrCodeValidation, decodeError(t, rec).Code)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskHandler_List(t *testing.T) {
	who := newCaller()
	svc := new(mockTaskService)
	h := NewTaskHandler(svc)
	r := newTestRouter(&who)
	r.GET("/tasks", h.List)

	assignee := uuid.New()
	svc.On("List", mock.Anything, who.tenantID, mock.MatchedBy(func(f domainWork.TaskFilter) bool {
		return f.Status != nil && *f.Status == domainWork.TaskStatus("in_progress") &&
			f.AssignedTo != nil && *f.AssignedTo == assignee && f.ClientID == nil
	})).Return(&shared.Paginated[work.TaskDTO]{Items: []work.TaskDTO{{Title: "A"}, {Title: "B"}}, Total: 2, Page: 1, PageSize: 20}, nil)

	rec := doJSON(t, r, http.MethodGet, "/tasks?status=in_progress&assigned_to="+assignee.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]work.TaskDTO](t, rec), 2)
	assert.Equal(t, int64(2), decodeMeta(t, rec).Total)

	rec = doJSON(t, r, http.MethodGet, "/tasks?client_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_Update(t *testing.T) {
	who := newCaller()
	svc := new(mockTaskService)
	h := NewTaskHandler(svc)
	r := newTestRouter(&who)
	r.PUT("/tasks/:id", h.Update)

	id := uuid.New()
	svc.On("Update", mock.Anything, mock.MatchedBy(func(in work.UpdateTaskInput) bool {
		return in.ID == id && in.Status != nil && *in.Status == domainWork.TaskStatus("completed") && in.Title == nil
	})).Return(&work.TaskDTO{ID: id, Status: "completed"}, nil).Once()

	rec := doJSON(t, r, http.MethodPut, "/tasks/"+id.String(), `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decodeData[work.TaskDTO](t, rec).Status)

	svc.On("Update", mock.Anything, mock.Anything).Return(nil, shared.ErrInvalidState).Once()
	rec = doJSON(t, r, http.MethodPut, "/tasks/"+id.String(), `{"status":"pending"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/tasks/"+id.String(), `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_GetDeleteInsights(t *testing.T) {
	who := newCaller()
	svc := new(mockTaskService)
	h := NewTaskHandler(svc)
	r := newTestRouter(&who)
	r.GET("/tasks/:id", h.Get)
	r.DELETE("/tasks/:id", h.Delete)
	r.GET("/tasks/:id/insights", h.Insights)

	id := uuid.New()
	svc.On("Get", mock.Anything, who.tenantID, id).Return(&work.TaskDTO{ID: id, Title: "Audit"}, nil)
	svc.On("Delete", mock.Anything, who.tenantID, id).Return(nil)
	svc.On("Insights", mock.Anything, who.tenantID, id).Return([]work.InsightDTO{{TaskID: id, Content: "About 6 hours", Source: "timeline"}}, nil)

	rec := doJSON(t, r, http.MethodGet, "/tasks/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Audit", decodeData[work.TaskDTO](t, rec).Title)

	rec = doJSON(t, r, http.MethodDelete, "/tasks/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/tasks/"+id.String()+"/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	insights := decodeData[[]work.InsightDTO](t, rec)
	require.Len(t, insights, 1)
	assert.Equal(t, "timeline", insights[0].Source)
}

func TestCreateTaskInputClientOverride(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	bodyClient, pathClient := uuid.New(), uuid.New()

	in, err := createTaskInput(tenantID, userID, CreateTaskRequest{Title: "x", ClientID: &bodyClient}, &pathClient)
	require.NoError(t, err)
	assert.Equal(t, pathClient, *in.ClientID)

	in, err = createTaskInput(tenantID, userID, CreateTaskRequest{Title: "x", ClientID: &bodyClient}, nil)
	require.NoError(t, err)
	assert.Equal(t, bodyClient, *in.ClientID)
	assert.Nil(t, in.DueDate)
}
