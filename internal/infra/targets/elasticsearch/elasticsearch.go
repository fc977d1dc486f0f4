package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// ElasticsearchTarget indexes each row as a document through the bulk API.
// Every field is stored as the string the generator produced.
type ElasticsearchTarget struct {
	baseURL string
	index   string
	client  *http.Client
	columns []string
	version string
}

func NewElasticsearchTarget(dsn, index string) *ElasticsearchTarget {
	return &ElasticsearchTarget{baseURL: normalizeURL(dsn), index: toIndexName(index)}
}

func (t *ElasticsearchTarget) Connect() error {
	t.client = &http.Client{Timeout: 15 * time.Second}
	resp, err := t.client.Get(t.baseURL + "/")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch ping failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var root struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if json.Unmarshal(body, &root) == nil {
		t.version = root.Version.Number
	}
	return nil
}

func (t *ElasticsearchTarget) Close() error { return nil }

// ServerVersion is the version reported by the cluster on Connect.
func (t *ElasticsearchTarget) ServerVersion() string { return t.version }

// WriteHeader creates the index when missing and deletes any documents left
// from an earlier run.
func (t *ElasticsearchTarget) WriteHeader(columns []domain.Column) error {
	t.columns = make([]string, len(columns))
	for i, col := range columns {
		t.columns[i] = col.Name
	}
	if err := t.createIndexIfNotExists(); err != nil {
		return err
	}
	return t.clearIndex()
}

func (t *ElasticsearchTarget) createIndexIfNotExists() error {
	req, err := http.NewRequest(http.MethodPut, t.baseURL+"/"+t.index, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "resource_already_exists_exception") {
		return nil
	}
	return fmt.Errorf("elasticsearch create index failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func (t *ElasticsearchTarget) clearIndex() error {
	payload := []byte(`{"query":{"match_all":{}}}`)
	req, err := http.NewRequest(http.MethodPost, t.baseURL+"/"+t.index+"/_delete_by_query?refresh=true", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elasticsearch clear index failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (t *ElasticsearchTarget) InsertBatch(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if len(row) != len(t.columns) {
			return fmt.Errorf("row has %d fields, index %s has %d columns", len(row), t.index, len(t.columns))
		}
		if err := enc.Encode(map[string]any{"index": map[string]string{"_index": t.index}}); err != nil {
			return err
		}
		doc := make(map[string]string, len(t.columns))
		for i, col := range t.columns {
			doc[col] = row[i]
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(http.MethodPost, t.baseURL+"/_bulk", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch bulk insert failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	_ = json.Unmarshal(body, &bulkResp)
	if bulkResp.Errors {
		return fmt.Errorf("elasticsearch bulk insert returned errors")
	}
	return nil
}

func normalizeURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "http://localhost:9200"
	}
	if strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") {
		return strings.TrimRight(dsn, "/")
	}
	return "http://" + strings.TrimRight(dsn, "/")
}

func toIndexName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return url.PathEscape(name)
}
