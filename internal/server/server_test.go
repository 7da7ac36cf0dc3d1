package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabry/internal/models"
	"collabry/internal/server"
	"collabry/internal/storage/sqlite"
)

type env struct {
	srv   *server.Server
	store *sqlite.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "collabry.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &env{srv: server.New(store, slog.Default(), ""), store: store}
}

func (e *env) do(t *testing.T, method, path, actor, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-User-ID", actor)
	}
	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func (e *env) user(t *testing.T, name string) models.User {
	t.Helper()

	u, err := e.store.CreateUser(context.Background(), name,
		fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]), "")
	require.NoError(t, err)
	return u
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireActor(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	creator := e.user(t, "creator")

	rec := e.do(t, http.MethodPost, "/api/projects", creator.ID, `{"name":"Website"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Project.IsCreator)

	rec = e.do(t, http.MethodGet, "/api/projects/"+created.Project.ID, creator.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.ProjectDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Len(t, detail.Members, 1)
	assert.Empty(t, detail.Tasks)

	// Outsiders see nothing.
	outsider := e.user(t, "outsider")
	rec = e.do(t, http.MethodGet, "/api/projects/"+created.Project.ID, outsider.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskStatusEndpointMapping(t *testing.T) {
	e := newEnv(t)
	creator := e.user(t, "creator")
	outsider := e.user(t, "outsider")

	rec := e.do(t, http.MethodPost, "/api/projects", creator.ID, `{"name":"Board"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = e.do(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/tasks", creator.ID, `{"title":"Ship it"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var taskResp struct {
		Task models.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taskResp))
	assert.Equal(t, models.StatusTodo, taskResp.Task.Status)

	// BAD_REQUEST: malformed status value.
	rec = e.do(t, http.MethodPatch, "/api/tasks/"+taskResp.Task.ID+"/status", creator.ID, `{"status":"SHIPPED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// NOT_FOUND: task vanished.
	rec = e.do(t, http.MethodPatch, "/api/tasks/"+uuid.NewString()+"/status", creator.ID, `{"status":"DONE"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// FORBIDDEN: caller is neither creator, assignee, nor project creator.
	rec = e.do(t, http.MethodPatch, "/api/tasks/"+taskResp.Task.ID+"/status", outsider.ID, `{"status":"DONE"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/tasks/"+taskResp.Task.ID+"/status", creator.ID, `{"status":"IN_PROGRESS"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taskResp))
	assert.Equal(t, models.StatusInProgress, taskResp.Task.Status)
}

func TestMemberEndpoints(t *testing.T) {
	e := newEnv(t)
	creator := e.user(t, "creator")
	member := e.user(t, "member")

	rec := e.do(t, http.MethodPost, "/api/projects", creator.ID, `{"name":"Team"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	base := "/api/projects/" + created.Project.ID + "/members"
	body := fmt.Sprintf(`{"user_id":%q}`, member.ID)

	rec = e.do(t, http.MethodPost, base, member.ID, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, base, creator.ID, body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, base, creator.ID, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodGet, base, member.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Members []models.Member `json:"members"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Members, 2)

	rec = e.do(t, http.MethodDelete, base+"/"+member.ID, creator.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteTaskForbiddenForProjectCreator(t *testing.T) {
	e := newEnv(t)
	creator := e.user(t, "creator")
	author := e.user(t, "author")

	rec := e.do(t, http.MethodPost, "/api/projects", creator.ID, `{"name":"Owned"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = e.do(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/members", creator.ID,
		fmt.Sprintf(`{"user_id":%q}`, author.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/tasks", author.ID, `{"title":"mine"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var taskResp struct {
		Task models.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taskResp))

	rec = e.do(t, http.MethodDelete, "/api/tasks/"+taskResp.Task.ID, creator.ID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/tasks/"+taskResp.Task.ID, author.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
