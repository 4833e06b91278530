package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/gcs"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// stubStore serves one object from memory; every other gateway method is
// out of scope for these tests.
type stubStore struct {
	gcs.Store
	data []byte
	err  error
}

func (s *stubStore) Download(_ context.Context, _ string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func schemaServiceWith(t *testing.T, store gcs.Store, fallbackPath string) *schemaService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &schemaService{
		log:          log,
		store:        store,
		object:       "config/canonical_schema.yaml",
		fallbackPath: fallbackPath,
		cacheTTL:     time.Minute,
	}
}

func TestSchemaLoadPrefersRemote(t *testing.T) {
	store := &stubStore{data: []byte("version: 3\nmandatory:\n  - Date\n  - Cost\noptional:\n  - Notes\n")}
	svc := schemaServiceWith(t, store, filepath.Join(t.TempDir(), "missing.yaml"))

	schema, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if schema.Version != 3 {
		t.Fatalf("version = %d, want 3", schema.Version)
	}
	if len(schema.Mandatory) != 2 || schema.Mandatory[0] != "Date" || schema.Mandatory[1] != "Cost" {
		t.Fatalf("mandatory = %v, want [Date Cost]", schema.Mandatory)
	}
}

func TestSchemaLoadFallsBackToLocalFile(t *testing.T) {
	fallback := filepath.Join(t.TempDir(), "canonical_schema.yaml")
	if err := os.WriteFile(fallback, []byte("version: 1\nmandatory:\n  - Channel\n"), 0o600); err != nil {
		t.Fatalf("write fallback: %v", err)
	}
	store := &stubStore{err: errors.New("remote unavailable")}
	svc := schemaServiceWith(t, store, fallback)

	schema, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(schema.Mandatory) != 1 || schema.Mandatory[0] != "Channel" {
		t.Fatalf("mandatory = %v, want [Channel]", schema.Mandatory)
	}
}

func TestSchemaLoadErrorsWhenBothSourcesFail(t *testing.T) {
	store := &stubStore{err: errors.New("remote unavailable")}
	svc := schemaServiceWith(t, store, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected error when remote and fallback both fail")
	}
}

func TestSchemaLoadCachesWithinTTL(t *testing.T) {
	store := &stubStore{data: []byte("version: 2\nmandatory:\n  - Date\n")}
	svc := schemaServiceWith(t, store, filepath.Join(t.TempDir(), "missing.yaml"))

	first, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}

	// Remote breaks; the cached copy must keep serving until the TTL lapses.
	store.data = nil
	store.err = errors.New("remote unavailable")

	second, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if second != first {
		t.Fatalf("expected the cached schema instance")
	}
}

func TestParseSchemaFillsDefaultMandatory(t *testing.T) {
	schema, err := parseSchema([]byte("version: 1\noptional:\n  - Notes\n"))
	if err != nil {
		t.Fatalf("parseSchema: %v", err)
	}
	if len(schema.Mandatory) != len(defaultMandatoryFields) {
		t.Fatalf("mandatory = %v, want defaults", schema.Mandatory)
	}
	for i, field := range defaultMandatoryFields {
		if schema.Mandatory[i] != field {
			t.Fatalf("mandatory[%d] = %q, want %q", i, schema.Mandatory[i], field)
		}
	}
}

func TestParseSchemaRejectsMalformedYAML(t *testing.T) {
	if _, err := parseSchema([]byte("mandatory: [unclosed")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
