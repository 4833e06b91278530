package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/httpx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/gcs"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// Schema is the canonical plan-column vocabulary. Mandatory fields gate
// extraction: a mapping that does not cover all of them is rejected.
type Schema struct {
	Version   int      `yaml:"version" json:"version"`
	Mandatory []string `yaml:"mandatory" json:"mandatory"`
	Optional  []string `yaml:"optional" json:"optional"`
}

var defaultMandatoryFields = []string{"Date", "Channel", "Impressions", "Cost"}

type SchemaService interface {
	Load(ctx context.Context) (*Schema, error)
}

type schemaService struct {
	log          *logger.Logger
	store        gcs.Store
	object       string
	fallbackPath string
	cacheTTL     time.Duration

	mu       sync.Mutex
	cached   *Schema
	cachedAt time.Time
}

// NewSchemaService reads the schema location from the environment. The store
// must be bound to SCHEMA_CONFIG_BUCKET when that differs from the artifact
// bucket; app wiring owns that choice.
func NewSchemaService(log *logger.Logger, store gcs.Store) SchemaService {
	return &schemaService{
		log:          log.With("service", "SchemaService"),
		store:        store,
		object:       envutil.String("SCHEMA_CONFIG_OBJECT", "config/canonical_schema.yaml"),
		fallbackPath: envutil.String("SCHEMA_FALLBACK_PATH", "configs/canonical_schema.yaml"),
		cacheTTL:     envutil.Minutes("SCHEMA_CACHE_TTL_MINUTES", 10),
	}
}

func (s *schemaService) Load(ctx context.Context) (*Schema, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < s.cacheTTL {
		cached := s.cached
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	schema, remoteErr := s.loadRemote(ctx)
	if remoteErr != nil {
		s.log.Warn("Remote schema load failed; reading fallback file",
			"object", s.object,
			"fallback", s.fallbackPath,
			"error", remoteErr,
		)
		var fallbackErr error
		schema, fallbackErr = s.loadFallback()
		if fallbackErr != nil {
			return nil, fmt.Errorf("load canonical schema: remote: %v; fallback: %w", remoteErr, fallbackErr)
		}
	}

	s.mu.Lock()
	s.cached = schema
	s.cachedAt = time.Now()
	s.mu.Unlock()
	return schema, nil
}

// loadRemote fetches the schema object with up to three attempts. The read is
// an idempotent GET, so transient storage failures are worth retrying; a
// missing object is not, and drops straight through to the fallback file.
func (s *schemaService) loadRemote(ctx context.Context) (*Schema, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		raw, err := s.store.Download(ctx, s.object)
		if err == nil {
			return parseSchema(raw)
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			break
		}
		if attempt < 2 {
			sleepFor := httpx.JitterSleep(backoff)
			s.log.Warn("Schema download retrying",
				"object", s.object,
				"attempt", attempt+1,
				"sleep", sleepFor.String(),
				"error", err,
			)
			time.Sleep(sleepFor)
			backoff *= 2
		}
	}
	return nil, lastErr
}

func (s *schemaService) loadFallback() (*Schema, error) {
	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		return nil, err
	}
	return parseSchema(raw)
}

func parseSchema(raw []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse canonical schema: %w", err)
	}
	if len(schema.Mandatory) == 0 {
		schema.Mandatory = append([]string{}, defaultMandatoryFields...)
	}
	return &schema, nil
}
