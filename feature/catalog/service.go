package catalog

import (
	"bytes"
	"context"
	"io"

	"rowsync/core/dataset"
	"rowsync/core/resource"
	"rowsync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// bookResource is the slice of the resource engine the service consumes.
type bookResource interface {
	ImportData(ctx context.Context, ds *dataset.Dataset, opts resource.ImportOptions) (*resource.Result, error)
	Export(ctx context.Context, iter resource.InstanceIterator) (*dataset.Dataset, error)
	DiffHeaders() []string
}

// ImportParams controls one import run.
type ImportParams struct {
	// DryRun reports outcomes and diffs without persisting anything.
	DryRun bool
	// RemoveAfterImport deletes the source object from storage once the
	// batch went through without errors. Ignored on dry runs.
	RemoveAfterImport bool
}

// Service runs catalog imports and exports against the book resource,
// reading dataset files from local streams or object storage.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	res    bookResource
}

// NewService creates a new catalog service.
func NewService(client storage.Client, bucket string, logger *zap.Logger, res bookResource) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		res:    res,
	}
}

// Import reads a CSV dataset from r and reconciles it against the books
// table.
func (s *Service) Import(ctx context.Context, r io.Reader, params ImportParams) (*resource.Result, error) {
	ds, err := dataset.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	result, err := s.res.ImportData(ctx, ds, resource.ImportOptions{DryRun: params.DryRun})
	if err != nil {
		return nil, err
	}

	totals := result.Totals()
	s.logger.Info("catalog import finished",
		zap.Bool("dry_run", params.DryRun),
		zap.Int("new", totals[resource.ImportTypeNew]),
		zap.Int("updated", totals[resource.ImportTypeUpdate]),
		zap.Int("deleted", totals[resource.ImportTypeDelete]),
		zap.Int("skipped", totals[resource.ImportTypeSkip]),
		zap.Int("failed", totals[resource.ImportTypeError]))
	return result, nil
}

// ImportFromStorage fetches a dataset object from the bucket and imports
// it.
func (s *Service) ImportFromStorage(ctx context.Context, objectName string, params ImportParams) (*resource.Result, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	result, err := s.Import(ctx, obj, params)
	if err != nil {
		return nil, err
	}

	if params.RemoveAfterImport && !params.DryRun && !result.HasErrors() {
		if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("could not remove imported object",
				zap.String("object", objectName),
				zap.Error(err))
		}
	}
	return result, nil
}

// Export writes the whole books table as CSV to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	ds, err := s.res.Export(ctx, nil)
	if err != nil {
		return err
	}
	return ds.WriteCSV(w)
}

// ExportToStorage writes the whole books table as a CSV object into the
// bucket, creating the bucket when it does not exist yet.
func (s *Service) ExportToStorage(ctx context.Context, objectName string) error {
	var buf bytes.Buffer
	if err := s.Export(ctx, &buf); err != nil {
		return err
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	return err
}

// DiffHeaders returns the column labels matching per-row diff entries.
func (s *Service) DiffHeaders() []string {
	return s.res.DiffHeaders()
}

// ListDatasets returns the object names available for import.
func (s *Service) ListDatasets(ctx context.Context) ([]string, error) {
	names := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		names = append(names, obj.Key)
	}
	return names, nil
}
