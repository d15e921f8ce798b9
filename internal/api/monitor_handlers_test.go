package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerDirectory(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/directories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDirectory(t *testing.T) {
	r, _ := newTestRouter(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("beta"), 0644))

	w := registerDirectory(t, r, dir)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeJSON(t, w)
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, dir, resp["directory"])
	assert.Equal(t, float64(2), resp["files_registered"])
}

func TestRegisterDirectory_InvalidPath(t *testing.T) {
	r, _ := newTestRouter(t)

	w := registerDirectory(t, r, filepath.Join(t.TempDir(), "does-not-exist"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeJSON(t, w)
	assert.Equal(t, "Invalid directory path", resp["error"])
}

func TestRegisterDirectory_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t)
	dir := t.TempDir()

	w := registerDirectory(t, r, dir)
	require.Equal(t, http.StatusCreated, w.Code)

	w = registerDirectory(t, r, dir)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterDirectory_BadBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/directories", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryChanges(t *testing.T) {
	r, changes := newTestRouter(t)

	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("v1"), 0644))

	w := registerDirectory(t, r, dir)
	require.Equal(t, http.StatusCreated, w.Code)
	name := filepath.Base(dir)

	require.NoError(t, os.WriteFile(tracked, []byte("v2"), 0644))
	added := filepath.Join(dir, "added.txt")
	require.NoError(t, os.WriteFile(added, []byte("new"), 0644))
	changes.Append("MODIFIED: " + tracked)

	req := httptest.NewRequest(http.MethodGet, "/api/directories/"+name+"/changes", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, []interface{}{added}, resp["added"])
	assert.Equal(t, []interface{}{tracked}, resp["modified"])
	assert.Equal(t, []interface{}{}, resp["deleted"])
	assert.Equal(t, []interface{}{"MODIFIED: " + tracked}, resp["recent_changes"])
}

func TestDirectoryChanges_Unknown(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/directories/unknown/changes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDirectoryFiles(t *testing.T) {
	r, _ := newTestRouter(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text"), 0644))

	w := registerDirectory(t, r, dir)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/directories/"+filepath.Base(dir)+"/files", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, float64(1), resp["total_files"])

	files := resp["files"].([]interface{})
	file := files[0].(map[string]interface{})
	assert.Equal(t, "notes.txt", file["filename"])
	assert.Len(t, file["hash"], 64)
	assert.Equal(t, float64(len("plain text")), file["size_bytes"])
}

func TestListDirectoryFiles_Unknown(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/directories/unknown/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnregisterDirectory(t *testing.T) {
	r, _ := newTestRouter(t)
	dir := t.TempDir()

	w := registerDirectory(t, r, dir)
	require.Equal(t, http.StatusCreated, w.Code)
	name := filepath.Base(dir)

	req := httptest.NewRequest(http.MethodDelete, "/api/directories/"+name, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/directories/"+name, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
