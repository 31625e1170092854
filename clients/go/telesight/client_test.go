package telesight

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadAndDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /archives":
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("upload content-type = %q", ct)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"abc","name":"Test","messages":5,"uploaded_at":"2024-03-01T10:00:00Z"}`))
		case "GET /archives/abc/fraud":
			if got := r.URL.Query().Get("min_severity"); got != "high" {
				t.Errorf("min_severity = %q", got)
			}
			if got := r.URL.Query().Get("limit"); got != "3" {
				t.Errorf("limit = %q", got)
			}
			w.Write([]byte(`{"count":1,"results":[{"message_id":7,"category":"phishing","score":9,"severity":"high"}]}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	archive, err := c.UploadArchive(strings.NewReader(`{"messages":[]}`))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if archive.ID != "abc" || archive.Messages != 5 {
		t.Fatalf("archive = %+v", archive)
	}

	results, err := c.Detect("abc", "fraud", DetectOptions{MinSeverity: "high", Limit: 3})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(results) != 1 || results[0].MessageID != 7 || results[0].Severity != "high" {
		t.Fatalf("results = %+v", results)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"archive not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Members("nope")
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "archive not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestQueryBuilding(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	if _, err := c.Similar("abc", 42, 5); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/archives/abc/posts/42/similar?limit=5" {
		t.Errorf("similar path = %q", gotPath)
	}

	if _, err := c.Calendar("abc", CalendarScope{Year: 2024, Month: 3}); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/archives/abc/calendar?month=3&year=2024" {
		t.Errorf("calendar path = %q", gotPath)
	}

	if _, err := c.GetReplyGraph("abc", true); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/archives/abc/graph/replies?cross_channel=true" {
		t.Errorf("replies path = %q", gotPath)
	}
}
