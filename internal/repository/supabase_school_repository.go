package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 16 << 20

// SupabaseSchoolRepository talks to a Supabase table through its PostgREST API.
type SupabaseSchoolRepository struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewSupabaseSchoolRepository creates a repository for table at baseURL
// (the project URL, e.g. https://xyz.supabase.co).
func NewSupabaseSchoolRepository(baseURL, apiKey, table string, httpClient *http.Client, log zerolog.Logger) *SupabaseSchoolRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SupabaseSchoolRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      table,
		httpClient: httpClient,
		log:        log.With().Str("component", "supabase_school_repository").Logger(),
	}
}

func (r *SupabaseSchoolRepository) tableURL(query url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", r.baseURL, url.PathEscape(r.table))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Insert posts one row and reads back the representation to learn its id.
func (r *SupabaseSchoolRepository) Insert(ctx context.Context, s *model.School) error {
	body, err := json.Marshal([]model.NewSchool{payload(s)})
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrInsertFailed, err)
	}

	data, err := r.do(ctx, http.MethodPost, r.tableURL(nil), bytes.NewReader(body), "return=representation")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}

	var rows []model.School
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrInsertFailed, err)
	}
	if len(rows) == 1 {
		s.ID = rows[0].ID
	}
	return nil
}

// ListAll selects every column of every row, ordered by id descending.
func (r *SupabaseSchoolRepository) ListAll(ctx context.Context) ([]model.School, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.desc")

	data, err := r.do(ctx, http.MethodGet, r.tableURL(q), nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	schools := []model.School{}
	if err := json.Unmarshal(data, &schools); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
	}
	return schools, nil
}

// do issues one request and returns the body of a 2xx response. Non-2xx
// responses become a *StoreError.
func (r *SupabaseSchoolRepository) do(ctx context.Context, method, absoluteURL string, body io.Reader, prefer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, absoluteURL, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v", method, absoluteURL, err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v", method, absoluteURL, err)
	}
	defer resp.Body.Close()

	// Always drain the body so the connection can be reused.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	r.log.Debug().
		Str("method", method).
		Str("table", r.table).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Store request completed")
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %v", method, absoluteURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, storeError(resp.StatusCode, data)
	}
	return data, nil
}

func storeError(status int, data []byte) *StoreError {
	e := &StoreError{Status: status}
	if gjson.ValidBytes(data) {
		e.Code = gjson.GetBytes(data, "code").String()
		e.Message = gjson.GetBytes(data, "message").String()
		e.Details = gjson.GetBytes(data, "details").String()
		e.Hint = gjson.GetBytes(data, "hint").String()
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(data))
	}
	return e
}
