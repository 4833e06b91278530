package mapping

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestMapColumnsSendsExecuteCommand(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/execute" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"mappings": [
					{"source_column": "Day", "source_column_index": 0, "target_field": "Date", "confidence": 0.97, "match_type": "semantic", "reasoning": "date-like values"},
					{"source_column": "Spend", "source_column_index": 3, "target_field": "Cost", "confidence": 0.91, "match_type": "synonym"}
				],
				"unmapped_source_columns": [
					{"source_column": "Notes", "source_column_index": 7}
				],
				"data_start_row": 5
			}
		}`))
	}))
	defer server.Close()

	c := &client{
		log:        testLogger(t),
		baseURL:    server.URL,
		httpClient: server.Client(),
	}

	res, err := c.MapColumns(context.Background(), "gs://plans/briefs/b/p/raw/plan.xlsx")
	if err != nil {
		t.Fatalf("map columns: %v", err)
	}

	if got := payload["command"]; got != "map-columns" {
		t.Fatalf("expected command map-columns, got %#v", got)
	}
	params, ok := payload["params"].(map[string]any)
	if !ok {
		t.Fatalf("expected params object, got %#v", payload["params"])
	}
	if got := params["file_path"]; got != "gs://plans/briefs/b/p/raw/plan.xlsx" {
		t.Fatalf("expected file_path with storage uri, got %#v", got)
	}

	if len(res.Mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(res.Mappings))
	}
	first := res.Mappings[0]
	if first.SourceColumn != "Day" || first.SourceColumnIndex != 0 || first.TargetField != "Date" {
		t.Fatalf("unexpected first mapping: %+v", first)
	}
	if res.Mappings[1].SourceColumnIndex != 3 {
		t.Fatalf("expected zero-based index 3, got %d", res.Mappings[1].SourceColumnIndex)
	}
	if len(res.Unmapped) != 1 || res.Unmapped[0].SourceColumn != "Notes" {
		t.Fatalf("unexpected unmapped columns: %+v", res.Unmapped)
	}
	if res.DataStartRow != 5 {
		t.Fatalf("expected data_start_row 5, got %d", res.DataStartRow)
	}
	if got := res.HeaderRow(); got != 4 {
		t.Fatalf("expected header row 4, got %d", got)
	}
}

func TestMapColumnsUpstreamFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`boom`))
			},
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": false, "error": "model unavailable"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := &client{
				log:        testLogger(t),
				baseURL:    server.URL,
				httpClient: server.Client(),
			}

			_, err := c.MapColumns(context.Background(), "gs://plans/briefs/b/p/raw/plan.xlsx")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !apierr.IsKind(err, apierr.KindUpstreamMapping) {
				t.Fatalf("expected upstream mapping kind, got %v", err)
			}
		})
	}
}

func TestHeaderRowClampsToFirstRow(t *testing.T) {
	cases := []struct {
		dataStartRow int
		want         int
	}{
		{dataStartRow: 0, want: 1},
		{dataStartRow: 1, want: 1},
		{dataStartRow: 2, want: 1},
		{dataStartRow: 5, want: 4},
		{dataStartRow: 12, want: 11},
	}
	for _, tc := range cases {
		r := Result{DataStartRow: tc.dataStartRow}
		if got := r.HeaderRow(); got != tc.want {
			t.Fatalf("data_start_row %d: expected header row %d, got %d", tc.dataStartRow, tc.want, got)
		}
	}
}
