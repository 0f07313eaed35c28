package catalog

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"rowsync/core/dataset"
	"rowsync/core/resource"
	"rowsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeResource records the dataset it was handed and plays back canned
// results.
type fakeResource struct {
	lastImport  *dataset.Dataset
	lastOptions resource.ImportOptions
	result      *resource.Result
	exported    *dataset.Dataset
	err         error
}

func (f *fakeResource) ImportData(_ context.Context, ds *dataset.Dataset, opts resource.ImportOptions) (*resource.Result, error) {
	f.lastImport = ds
	f.lastOptions = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeResource) Export(context.Context, resource.InstanceIterator) (*dataset.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.exported, nil
}

func (f *fakeResource) DiffHeaders() []string {
	return []string{"id", "title"}
}

func cleanResult(types ...resource.ImportType) *resource.Result {
	result := &resource.Result{}
	for _, it := range types {
		result.Rows = append(result.Rows, resource.RowResult{ImportType: it})
	}
	return result
}

func TestService_Import(t *testing.T) {
	res := &fakeResource{result: cleanResult(resource.ImportTypeNew, resource.ImportTypeUpdate)}
	svc := NewService(new(mocks.Client), "datasets", zap.NewNop(), res)

	csv := "id,title\n,The Hobbit\n7,The Dispossessed\n"
	result, err := svc.Import(context.Background(), strings.NewReader(csv), ImportParams{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, res.lastImport.Len())
	assert.Equal(t, []string{"id", "title"}, res.lastImport.Headers())
	assert.True(t, res.lastOptions.DryRun)
	assert.Equal(t, 2, len(result.Rows))
}

func TestService_Import_BadCSV(t *testing.T) {
	svc := NewService(new(mocks.Client), "datasets", zap.NewNop(), &fakeResource{})

	_, err := svc.Import(context.Background(), strings.NewReader(`id,"broken`), ImportParams{})
	assert.Error(t, err)
}

func TestService_ImportFromStorage(t *testing.T) {
	csv := "id,title\n,The Hobbit\n"

	t.Run("RemovesCleanImport", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("GetObject", mock.Anything, "datasets", "books.csv", mock.Anything).
			Return(io.NopCloser(strings.NewReader(csv)), nil)
		mockClient.On("RemoveObject", mock.Anything, "datasets", "books.csv", mock.Anything).
			Return(nil)

		res := &fakeResource{result: cleanResult(resource.ImportTypeNew)}
		svc := NewService(mockClient, "datasets", zap.NewNop(), res)

		result, err := svc.ImportFromStorage(context.Background(), "books.csv",
			ImportParams{RemoveAfterImport: true})
		require.NoError(t, err)
		assert.False(t, result.HasErrors())
		mockClient.AssertExpectations(t)
	})

	t.Run("KeepsObjectOnErrors", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("GetObject", mock.Anything, "datasets", "books.csv", mock.Anything).
			Return(io.NopCloser(strings.NewReader(csv)), nil)

		failed := cleanResult(resource.ImportTypeError)
		failed.Rows[0].Errors = []resource.Error{resource.NewError(assert.AnError)}
		res := &fakeResource{result: failed}
		svc := NewService(mockClient, "datasets", zap.NewNop(), res)

		result, err := svc.ImportFromStorage(context.Background(), "books.csv",
			ImportParams{RemoveAfterImport: true})
		require.NoError(t, err)
		assert.True(t, result.HasErrors())
		mockClient.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("KeepsObjectOnDryRun", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("GetObject", mock.Anything, "datasets", "books.csv", mock.Anything).
			Return(io.NopCloser(strings.NewReader(csv)), nil)

		res := &fakeResource{result: cleanResult(resource.ImportTypeNew)}
		svc := NewService(mockClient, "datasets", zap.NewNop(), res)

		_, err := svc.ImportFromStorage(context.Background(), "books.csv",
			ImportParams{DryRun: true, RemoveAfterImport: true})
		require.NoError(t, err)
		mockClient.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Export(t *testing.T) {
	exported := dataset.New("id", "title")
	require.NoError(t, exported.Append("1", "The Hobbit"))

	svc := NewService(new(mocks.Client), "datasets", zap.NewNop(), &fakeResource{exported: exported})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))
	assert.Equal(t, "id,title\n1,The Hobbit\n", buf.String())
}

func TestService_ExportToStorage(t *testing.T) {
	exported := dataset.New("id", "title")
	require.NoError(t, exported.Append("1", "The Hobbit"))

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "datasets").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "datasets", mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, "datasets", "books.csv", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(mockClient, "datasets", zap.NewNop(), &fakeResource{exported: exported})

	require.NoError(t, svc.ExportToStorage(context.Background(), "books.csv"))
	mockClient.AssertExpectations(t)
}

func TestService_ListDatasets(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "a.csv"}
	ch <- minio.ObjectInfo{Key: "b.csv"}
	close(ch)

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "datasets", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	svc := NewService(mockClient, "datasets", zap.NewNop(), &fakeResource{})

	names, err := svc.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)
}
