package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// Client is the column-mapping microservice client. The service reads a
// spreadsheet straight from object storage and proposes canonical-field
// mappings for its header row.
type Client interface {
	MapColumns(ctx context.Context, fileURI string) (*Result, error)
}

// ColumnMapping is one proposed header mapping. SourceColumnIndex is
// zero-based, matching the wire format; conversion to spreadsheet
// coordinates happens at the edge that needs it.
type ColumnMapping struct {
	SourceColumn      string  `json:"source_column"`
	SourceColumnIndex int     `json:"source_column_index"`
	TargetField       string  `json:"target_field"`
	Confidence        float64 `json:"confidence"`
	MatchType         string  `json:"match_type"`
	Reasoning         string  `json:"reasoning,omitempty"`
}

// UnmappedColumn is a source header the service could not map. These are
// left alone downstream; their original header text must survive.
type UnmappedColumn struct {
	SourceColumn      string `json:"source_column"`
	SourceColumnIndex int    `json:"source_column_index"`
}

// Result is the payload the service returns for one workbook.
type Result struct {
	Mappings     []ColumnMapping  `json:"mappings"`
	Unmapped     []UnmappedColumn `json:"unmapped_source_columns"`
	DataStartRow int              `json:"data_start_row"` // 1-based
}

// HeaderRow derives the header row from the first data row, clamped so a
// sheet whose data starts at row 1 still yields a valid row.
func (r *Result) HeaderRow() int {
	if r.DataStartRow-1 < 1 {
		return 1
	}
	return r.DataStartRow - 1
}

// TargetFields returns the proposed fields in wire order.
func (r *Result) TargetFields() []string {
	out := make([]string, 0, len(r.Mappings))
	for _, m := range r.Mappings {
		out = append(out, m.TargetField)
	}
	return out
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(envutil.String("MAPPING_SERVICE_URL", ""))
	if baseURL == "" {
		return nil, fmt.Errorf("missing env var MAPPING_SERVICE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := envutil.Seconds("MAPPING_TIMEOUT_SECONDS", 300)

	return &client{
		log:        log.With("service", "MappingClient"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type executeRequest struct {
	Command string        `json:"command"`
	Params  executeParams `json:"params"`
}

type executeParams struct {
	FilePath string `json:"file_path"`
}

type executeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    Result `json:"data"`
}

type mappingHTTPError struct {
	StatusCode int
	Body       string
}

func (e *mappingHTTPError) Error() string {
	return fmt.Sprintf("mapping service http %d: %s", e.StatusCode, e.Body)
}

func (e *mappingHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// MapColumns runs the map-columns command against the service. It is a
// single attempt: AI inference is expensive and non-idempotent enough that
// retry policy belongs to whoever re-triggers extraction.
func (c *client) MapColumns(ctx context.Context, fileURI string) (*Result, error) {
	fileURI = strings.TrimSpace(fileURI)
	if fileURI == "" {
		return nil, apierr.Validation("file uri required")
	}

	body := executeRequest{
		Command: "map-columns",
		Params:  executeParams{FilePath: fileURI},
	}

	start := time.Now()
	raw, err := c.doOnce(ctx, "POST", "/execute", body)
	if err != nil {
		return nil, apierr.UpstreamMapping("mapping service request failed", err)
	}

	var resp executeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apierr.UpstreamMapping("mapping service returned malformed response", err)
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = "mapping service reported failure"
		}
		return nil, apierr.UpstreamMapping(msg, nil)
	}

	c.log.Info("Columns mapped",
		"file_uri", fileURI,
		"mapped", len(resp.Data.Mappings),
		"unmapped", len(resp.Data.Unmapped),
		"data_start_row", resp.Data.DataStartRow,
		"duration", time.Since(start).String(),
	)
	return &resp.Data, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &mappingHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
