package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"rowsync/core/dataset"
	"rowsync/core/resource"
	"rowsync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(res *fakeResource) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), res)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient
}

func TestHandleImport(t *testing.T) {
	result := cleanResult(resource.ImportTypeNew, resource.ImportTypeSkip)
	result.Rows[0].ObjectRepr = "The Hobbit"
	app, _ := setupTestApp(&fakeResource{result: result})

	req := httptest.NewRequest("POST", "/catalog/import?dry_run=1",
		strings.NewReader("id,title\n,The Hobbit\n"))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, false, body["has_errors"])
	assert.NotEmpty(t, body["run_id"])

	totals := body["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["new"])
	assert.Equal(t, float64(1), totals["skip"])
}

func TestHandleImport_BadPayload(t *testing.T) {
	app, _ := setupTestApp(&fakeResource{})

	req := httptest.NewRequest("POST", "/catalog/import",
		strings.NewReader(`id,"broken`))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleImportFromStorage(t *testing.T) {
	app, mockClient := setupTestApp(&fakeResource{result: cleanResult(resource.ImportTypeUpdate)})

	mockClient.On("GetObject", mock.Anything, "test-bucket", "books.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("id,title\n7,New Title\n")), nil)

	req := httptest.NewRequest("POST", "/catalog/import/books.csv", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	totals := body["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["update"])
	mockClient.AssertExpectations(t)
}

func TestHandleExport(t *testing.T) {
	exported := dataset.New("id", "title")
	require.NoError(t, exported.Append("1", "The Hobbit"))
	app, _ := setupTestApp(&fakeResource{exported: exported})

	req := httptest.NewRequest("GET", "/catalog/export", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "id,title\n1,The Hobbit\n", string(payload))
}

func TestHandleExport_Failure(t *testing.T) {
	app, _ := setupTestApp(&fakeResource{err: assert.AnError})

	req := httptest.NewRequest("GET", "/catalog/export", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleListDatasets(t *testing.T) {
	app, mockClient := setupTestApp(&fakeResource{})

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "a.csv"}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	req := httptest.NewRequest("GET", "/catalog/datasets", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{"a.csv"}, body["datasets"])
}
