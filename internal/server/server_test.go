package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/complex-calc/internal/server"
	"github.com/karupanerura/complex-calc/internal/session"
	"github.com/samber/lo"
)

type evaluationResponse struct {
	Name       string         `json:"name"`
	CreateTime time.Time      `json:"createTime"`
	Source     string         `json:"source"`
	Simplified string         `json:"simplified"`
	Error      map[string]any `json:"error"`
}

func do(t *testing.T, srv *server.Server, method, path, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("io.ReadAll: %v", err)
	}
	return res.StatusCode, b
}

func TestCreateEvaluation(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		body       string
		status     int
		simplified string
		errTag     string
	}{
		{body: `{"expression": "2+3*4"}`, status: http.StatusOK, simplified: "14"},
		{body: `{"expression": "5/0"}`, status: http.StatusOK, simplified: "undefined"},
		{body: `{"expression": "1+(2"}`, status: http.StatusUnprocessableEntity, errTag: "ParsingError"},
		{body: `{"expression": "1+a"}`, status: http.StatusUnprocessableEntity, errTag: "LexingError"},
	} {
		tt := tt
		t.Run(tt.body, func(t *testing.T) {
			t.Parallel()

			srv := server.New(&session.Evaluator{})
			status, b := do(t, srv, http.MethodPost, "/v1/evaluations", tt.body)
			if status != tt.status {
				t.Fatalf("expect status %d but got %d: %s", tt.status, status, b)
			}

			var res evaluationResponse
			if err := json.Unmarshal(b, &res); err != nil {
				t.Fatal(err)
			}
			if res.Name != "/v1/evaluations/1" {
				t.Errorf("unexpected name: %s", res.Name)
			}
			if res.CreateTime.IsZero() {
				t.Errorf("createTime should be set: %s", b)
			}
			if res.Simplified != tt.simplified {
				t.Errorf("expect %q but got %q", tt.simplified, res.Simplified)
			}
			if tt.errTag != "" {
				if diff := cmp.Diff([]any{tt.errTag}, res.Error["tags"]); diff != "" {
					t.Errorf("unexpected error tags (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestEvaluationJSONKeys(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		body     string
		expected []string
	}{
		{
			body:     `{"expression": "1+2"}`,
			expected: []string{"createTime", "name", "result", "simplified", "source", "tokens", "tree"},
		},
		{
			body:     `{"expression": "1 2"}`,
			expected: []string{"createTime", "error", "name", "source", "tokens"},
		},
	} {
		tt := tt
		t.Run(tt.body, func(t *testing.T) {
			t.Parallel()

			srv := server.New(&session.Evaluator{})
			_, b := do(t, srv, http.MethodPost, "/v1/evaluations", tt.body)

			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}
			keys := lo.Keys(got)
			sort.Strings(keys)
			if diff := cmp.Diff(tt.expected, keys); diff != "" {
				t.Errorf("unexpected keys (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateEvaluationBadRequest(t *testing.T) {
	t.Parallel()

	srv := server.New(&session.Evaluator{})
	for _, body := range []string{`{`, `{}`, `{"expression": 1}`} {
		if status, b := do(t, srv, http.MethodPost, "/v1/evaluations", body); status != http.StatusBadRequest {
			t.Errorf("%s: expect 400 but got %d: %s", body, status, b)
		}
	}
}

func TestListAndGetEvaluations(t *testing.T) {
	t.Parallel()

	srv := server.New(&session.Evaluator{})
	for _, expr := range []string{"1", "2", "3"} {
		if status, b := do(t, srv, http.MethodPost, "/v1/evaluations", `{"expression": "`+expr+`"}`); status != http.StatusOK {
			t.Fatalf("expect 200 but got %d: %s", status, b)
		}
	}

	status, b := do(t, srv, http.MethodGet, "/v1/evaluations", "")
	if status != http.StatusOK {
		t.Fatalf("expect 200 but got %d: %s", status, b)
	}
	var list struct {
		Evaluations []evaluationResponse `json:"evaluations"`
	}
	if err := json.Unmarshal(b, &list); err != nil {
		t.Fatal(err)
	}
	var sources []string
	for _, ev := range list.Evaluations {
		sources = append(sources, ev.Source)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, sources); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}

	status, b = do(t, srv, http.MethodGet, "/v1/evaluations/2", "")
	if status != http.StatusOK {
		t.Fatalf("expect 200 but got %d: %s", status, b)
	}
	var one evaluationResponse
	if err := json.Unmarshal(b, &one); err != nil {
		t.Fatal(err)
	}
	if one.Simplified != "2" {
		t.Errorf("unexpected evaluation: %s", b)
	}

	if status, _ := do(t, srv, http.MethodGet, "/v1/evaluations/42", ""); status != http.StatusNotFound {
		t.Errorf("expect 404 but got %d", status)
	}
}
