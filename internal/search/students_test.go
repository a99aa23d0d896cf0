package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/netra/internal/models"
)

func strPtr(s string) *string { return &s }

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	status   int

	refreshStatus int
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/_refresh") && f.refreshStatus != 0:
		w.WriteHeader(f.refreshStatus)
		_, _ = w.Write([]byte(`{"error":"refresh failed"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[
			{"_source":{"roll_no":"CSE-001","name":"Bala","student_class":"II-CSE-A","parent_phone":"2","department":"CSE"}},
			{"_source":{"roll_no":"CSE-003","name":"Balan","student_class":"II-CSE-A","parent_phone":"3","department":"CSE"}}
		]}}`))
	default:
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newTestClient(t *testing.T, f *fakeES) *Client {
	t.Helper()

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "", "", "students")
	require.NoError(t, err)
	return c
}

func TestBuildQuery_DepartmentFilter(t *testing.T) {
	t.Parallel()

	q := buildQuery("bala", strPtr("CSE"), 10, 5)
	assert.Equal(t, 10, q["from"])
	assert.Equal(t, 5, q["size"])

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"department.keyword":"CSE"`)
	assert.Contains(t, string(raw), `"query":"bala"`)

	unfiltered, err := json.Marshal(buildQuery("bala", nil, 0, 10))
	require.NoError(t, err)
	assert.NotContains(t, string(unfiltered), "filter")
}

func TestClient_SearchStudents(t *testing.T) {
	t.Parallel()

	f := &fakeES{}
	c := newTestClient(t, f)

	total, students, err := c.SearchStudents(context.Background(), "bala", strPtr("CSE"), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, students, 2)
	assert.Equal(t, "CSE-001", students[0].RollNo)
	require.NotNil(t, students[0].Department)
	assert.Equal(t, "CSE", *students[0].Department)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	assert.Contains(t, f.requests[len(f.requests)-1], "/students/_search")
}

func TestClient_SearchStudents_BackendError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeES{status: http.StatusInternalServerError})

	_, _, err := c.SearchStudents(context.Background(), "bala", nil, 0, 10)
	assert.ErrorIs(t, err, ErrSearch)
}

func TestClient_IndexStudents(t *testing.T) {
	t.Parallel()

	f := &fakeES{}
	c := newTestClient(t, f)

	err := c.IndexStudents(context.Background(), []models.Student{
		{RollNo: "CSE-001", Name: "Bala", StudentClass: "II-CSE-A", ParentPhone: "2", Department: strPtr("CSE")},
		{RollNo: "ECE-001", Name: "Arun", StudentClass: "II-ECE-A", ParentPhone: "1"},
	})
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Contains(t, f.requests, "PUT /students/_doc/CSE-001")
	assert.Contains(t, f.requests, "PUT /students/_doc/ECE-001")
	assert.Contains(t, f.bodies, `{"roll_no":"ECE-001","name":"Arun","student_class":"II-ECE-A","parent_phone":"1"}`)
}

func TestClient_IndexStudents_RefreshFailure(t *testing.T) {
	t.Parallel()

	f := &fakeES{refreshStatus: http.StatusInternalServerError}
	c := newTestClient(t, f)

	err := c.IndexStudents(context.Background(), []models.Student{
		{RollNo: "CSE-001", Name: "Bala", StudentClass: "II-CSE-A"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearch)
	assert.Contains(t, err.Error(), "refresh")

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	assert.True(t, strings.HasSuffix(f.requests[len(f.requests)-1], "/students/_refresh"))
}
