package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linerun/internal/core"
	"linerun/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	journal, err := storage.OpenJournal(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)

	runner := core.NewRunner(core.NewExecutor(""), nil, journal, nil)
	s := New(runner, journal, nil)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func submit(t *testing.T, ts *httptest.Server, yaml string) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/pipelines", "application/yaml", strings.NewReader(yaml))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.ID)
	return body.ID
}

func TestSubmitAndRunPipeline(t *testing.T) {
	_, ts := newTestServer(t)
	id := submit(t, ts, "name: ok\nsteps:\n  - run: echo hi\n")

	resp, err := http.Post(ts.URL+"/pipelines/"+id+"/run", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run core.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.True(t, run.Success)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, "hi\n", run.Steps[0].Output)

	// The run is queryable afterwards.
	got, err := http.Get(ts.URL + "/runs/" + run.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
}

func TestSubmitInvalidPipeline(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/pipelines", "application/yaml",
		strings.NewReader("steps:\n  - name: nothing\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunReportsFailure(t *testing.T) {
	_, ts := newTestServer(t)
	id := submit(t, ts, "name: bad\nsteps:\n  - run: echo a\n  - name: boom\n    run: \"false\"\n  - run: echo b\n")

	resp, err := http.Post(ts.URL+"/pipelines/"+id+"/run", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run core.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.False(t, run.Success)
	assert.Equal(t, 1, run.FailedStep)
	assert.Len(t, run.Steps, 2)
}

func TestEventTriggersMatchingPipelines(t *testing.T) {
	_, ts := newTestServer(t)
	pushID := submit(t, ts, "name: on-push\non: [push]\nsteps:\n  - run: echo pushed\n")
	submit(t, ts, "name: on-tag\non: [tag]\nsteps:\n  - run: echo tagged\n")

	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(`{"kind":"push"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Kind string `json:"kind"`
		Runs []struct {
			PipelineID string `json:"pipelineId"`
			Success    bool   `json:"success"`
		} `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "push", body.Kind)
	require.Len(t, body.Runs, 1)
	assert.Equal(t, pushID, body.Runs[0].PipelineID)
	assert.True(t, body.Runs[0].Success)
}

func TestEventWithBadBody(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnknownPipelineAndRun(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/pipelines/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/runs/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJournalVerifyEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	id := submit(t, ts, "name: ok\nsteps:\n  - run: echo hi\n")

	resp, err := http.Post(ts.URL+"/pipelines/"+id+"/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/journal/verify")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
