package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// Store is the object-store gateway: signed URLs for direct client↔storage
// transfer plus server-side blob I/O. It never retries; retry policy is the
// caller's call.
type Store interface {
	SignedUploadURL(ctx context.Context, object, contentType string) (string, error)
	SignedViewURL(ctx context.Context, object string) (string, error)
	Upload(ctx context.Context, object, contentType string, r io.Reader) error
	Download(ctx context.Context, object string) ([]byte, error)
	Exists(ctx context.Context, object string) (bool, error)
	Copy(ctx context.Context, srcObject, dstObject string) error
	Delete(ctx context.Context, object string) error
	List(ctx context.Context, prefix string) ([]string, error)
	BucketName() string
	URI(object string) string
}

type store struct {
	log       *logger.Logger
	bucket    string
	uploadTTL time.Duration
	viewTTL   time.Duration

	// client and signer are lazily initialized; a failed attempt leaves
	// them nil so the next call retries instead of caching the failure
	// (credentials can be late at cold start).
	mu     sync.Mutex
	client *storage.Client
	signer urlSigner
}

func NewStore(log *logger.Logger) (Store, error) {
	bucket := envutil.String("GCS_BUCKET_NAME", "")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	return newStore(log, bucket), nil
}

// NewStoreForBucket binds a gateway to a bucket other than the artifact
// bucket; config objects may live elsewhere.
func NewStoreForBucket(log *logger.Logger, bucket string) (Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	return newStore(log, bucket), nil
}

func newStore(log *logger.Logger, bucket string) *store {
	return &store{
		log:       log.With("service", "ObjectStore", "bucket", bucket),
		bucket:    bucket,
		uploadTTL: envutil.Minutes("UPLOAD_URL_TTL_MINUTES", 15),
		viewTTL:   time.Duration(envutil.Int("VIEW_URL_TTL_HOURS", 144)) * time.Hour,
	}
}

func (s *store) BucketName() string { return s.bucket }

func (s *store) URI(object string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, object)
}

func (s *store) ensureClient(ctx context.Context) (*storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	client, err := storage.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		s.log.Error("storage client init failed", "error", err)
		return nil, err
	}
	s.client = client
	return s.client, nil
}

func (s *store) ensureSigner(ctx context.Context) (urlSigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signer != nil {
		return s.signer, nil
	}
	signer, err := resolveSigner(ctx)
	if err != nil {
		s.log.Error("signer resolution failed", "error", err)
		return nil, err
	}
	s.signer = signer
	return s.signer, nil
}

func (s *store) signedURL(ctx context.Context, object, method, contentType string, ttl time.Duration) (string, error) {
	signer, err := s.ensureSigner(ctx)
	if err != nil {
		return "", apierr.Storage("sign url", err)
	}
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().Add(ttl),
	}
	if contentType != "" {
		opts.ContentType = contentType
	}
	signer.apply(opts)
	url, err := storage.SignedURL(s.bucket, object, opts)
	if err != nil {
		return "", apierr.Storage("sign url", err)
	}
	return url, nil
}

func (s *store) SignedUploadURL(ctx context.Context, object, contentType string) (string, error) {
	return s.signedURL(ctx, object, "PUT", contentType, s.uploadTTL)
}

func (s *store) SignedViewURL(ctx context.Context, object string) (string, error) {
	return s.signedURL(ctx, object, "GET", "", s.viewTTL)
}

func (s *store) Upload(ctx context.Context, object, contentType string, r io.Reader) error {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return apierr.Storage("upload "+object, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return apierr.Storage("upload "+object, err)
	}
	if err := w.Close(); err != nil {
		return apierr.Storage("upload "+object, err)
	}
	return nil
}

func (s *store) Download(ctx context.Context, object string) ([]byte, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return nil, apierr.Storage("download "+object, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	r, err := client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, apierr.NotFound("object not found: " + object)
		}
		return nil, apierr.Storage("download "+object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apierr.Storage("download "+object, err)
	}
	return data, nil
}

func (s *store) Exists(ctx context.Context, object string) (bool, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return false, apierr.Storage("stat "+object, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = client.Bucket(s.bucket).Object(object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apierr.Storage("stat "+object, err)
	}
	return true, nil
}

func (s *store) Copy(ctx context.Context, srcObject, dstObject string) error {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return apierr.Storage("copy "+srcObject, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	src := client.Bucket(s.bucket).Object(srcObject)
	dst := client.Bucket(s.bucket).Object(dstObject)
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return apierr.NotFound("object not found: " + srcObject)
		}
		return apierr.Storage(fmt.Sprintf("copy %s -> %s", srcObject, dstObject), err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, object string) error {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return apierr.Storage("delete "+object, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := client.Bucket(s.bucket).Object(object).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return apierr.NotFound("object not found: " + object)
		}
		return apierr.Storage("delete "+object, err)
	}
	return nil
}

func (s *store) List(ctx context.Context, prefix string) ([]string, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return nil, apierr.Storage("list "+prefix, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	it := client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apierr.Storage("list "+prefix, err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}
