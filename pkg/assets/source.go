package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound is returned by a Source when the named asset does not
// exist.
var ErrNotFound = errors.New("asset not found")

// Source provides the raw bytes of shell assets by name. Names are
// slash-separated relative paths ("index.html", "js/traverse.js").
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource serves assets from a local directory. Used in development
// and for single-host deployments.
type DirSource struct {
	root string
}

// NewDirSource creates a Source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Open opens the named asset. Traversal outside the root is rejected
// as not found.
func (d *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	rel, ok := sanitize(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	f, err := os.Open(filepath.Join(d.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, nil
}

// S3Client is the subset of the S3 API the source needs. *s3.Client
// satisfies it.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves assets from an S3 bucket, for deployments where the
// built shell is published to object storage.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	source := assets.NewS3Source(s3.NewFromConfig(cfg), "my-bucket", "shell/")
type S3Source struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Source creates a Source reading from the given bucket. The
// prefix is prepended to every asset name to form the object key.
func NewS3Source(client S3Client, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Open fetches the named object. Missing keys map to ErrNotFound.
func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rel, ok := sanitize(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + rel),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("fetching s3 object %s: %w", rel, err)
	}
	return out.Body, nil
}

// sanitize normalizes an asset name to a safe relative path. It
// rejects traversal and absolute-path tricks so a Source cannot be
// walked outside its root.
func sanitize(name string) (string, bool) {
	if name == "" || strings.IndexByte(name, 0) != -1 {
		return "", false
	}
	if strings.Contains(name, "\\") {
		return "", false
	}

	rel := strings.TrimPrefix(name, "/")
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || strings.HasPrefix(clean, "/") {
		return "", false
	}
	return clean, true
}
