package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

func TestHandleCreateJob(t *testing.T) {
	store := newFakeStorage()
	embedder := &fakeEmbedder{vector: []float64{0.5, 0.5}}
	s := newTestServer(testDeps{store: store, embedder: embedder})

	body := bytes.NewBufferString(`{
		"title": "Backend Engineer",
		"description": "Build Go services",
		"required_skills": "go, postgresql, docker",
		"weight_config": "{\"skills\": 0.6, \"experience\": 0.4}"
	}`)
	w := doRequest(s, http.MethodPost, "/jobs", "application/json", body)

	require.Equal(t, http.StatusCreated, w.Code)

	var job db.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "go, postgresql, docker", job.RequiredSkills)

	// The job description embedding is stored alongside.
	_, ok := store.vectors[fmt.Sprintf("%s:%d", scoring.EntityJob, job.ID)]
	assert.True(t, ok)
}

func TestHandleCreateJob_MissingTitle(t *testing.T) {
	s := newTestServer(testDeps{})

	body := bytes.NewBufferString(`{"description": "Build Go services"}`)
	w := doRequest(s, http.MethodPost, "/jobs", "application/json", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateJob_MalformedWeightConfigIsStored(t *testing.T) {
	store := newFakeStorage()
	s := newTestServer(testDeps{store: store})

	// Schema validation is advisory; the job is created and scoring will
	// fall back to default weights.
	body := bytes.NewBufferString(`{
		"title": "Backend Engineer",
		"description": "Build Go services",
		"weight_config": "not json"
	}`)
	w := doRequest(s, http.MethodPost, "/jobs", "application/json", body)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, "not json", job.WeightConfig)
	}
}

func TestHandleGetJob_NotFound(t *testing.T) {
	s := newTestServer(testDeps{})

	w := doRequest(s, http.MethodGet, "/jobs/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateJob(t *testing.T) {
	store := newFakeStorage()
	id, err := store.CreateJob(context.Background(), "Backend Engineer", "Go services", "", "")
	require.NoError(t, err)
	s := newTestServer(testDeps{store: store})

	body := bytes.NewBufferString(`{"title": "Senior Backend Engineer", "description": "Go and Postgres"}`)
	w := doRequest(s, http.MethodPut, fmt.Sprintf("/jobs/%d", id), "application/json", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Senior Backend Engineer", store.jobs[id].Title)
}

func TestHandleUpdateJob_NotFound(t *testing.T) {
	s := newTestServer(testDeps{})

	body := bytes.NewBufferString(`{"title": "X", "description": "Y"}`)
	w := doRequest(s, http.MethodPut, "/jobs/42", "application/json", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteJob(t *testing.T) {
	store := newFakeStorage()
	id, err := store.CreateJob(context.Background(), "Backend Engineer", "Go services", "", "")
	require.NoError(t, err)
	s := newTestServer(testDeps{store: store})

	w := doRequest(s, http.MethodDelete, fmt.Sprintf("/jobs/%d", id), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.jobs)
}

func TestHandlePutVector(t *testing.T) {
	store := newFakeStorage()
	id, err := store.CreateJob(context.Background(), "Backend Engineer", "Go services", "", "")
	require.NoError(t, err)
	s := newTestServer(testDeps{store: store})

	body := bytes.NewBufferString(`{"vector": [0.1, 0.2, 0.3]}`)
	w := doRequest(s, http.MethodPut, fmt.Sprintf("/vectors/job/%d", id), "application/json", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, store.vectors[fmt.Sprintf("job:%d", id)])
}

func TestHandlePutVector_BadEntityType(t *testing.T) {
	s := newTestServer(testDeps{})

	body := bytes.NewBufferString(`{"vector": [0.1]}`)
	w := doRequest(s, http.MethodPut, "/vectors/company/1", "application/json", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePutVector_EmptyVector(t *testing.T) {
	store := newFakeStorage()
	id, err := store.CreateJob(context.Background(), "Backend Engineer", "Go services", "", "")
	require.NoError(t, err)
	s := newTestServer(testDeps{store: store})

	body := bytes.NewBufferString(`{"vector": []}`)
	w := doRequest(s, http.MethodPut, fmt.Sprintf("/vectors/job/%d", id), "application/json", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePutVector_EntityMissing(t *testing.T) {
	s := newTestServer(testDeps{})

	body := bytes.NewBufferString(`{"vector": [0.1]}`)
	w := doRequest(s, http.MethodPut, "/vectors/candidate/42", "application/json", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteVector(t *testing.T) {
	store := newFakeStorage()
	store.vectors["candidate:1"] = []float64{0.1}
	s := newTestServer(testDeps{store: store})

	w := doRequest(s, http.MethodDelete, "/vectors/candidate/1", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.vectors)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(testDeps{})

	w := doRequest(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestHandleHealth_DatabaseDown(t *testing.T) {
	store := newFakeStorage()
	store.pingErr = fmt.Errorf("connection refused")
	s := newTestServer(testDeps{store: store})

	w := doRequest(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
