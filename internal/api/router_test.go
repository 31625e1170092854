package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dagmawibabi/telesight/internal/archive"
	"github.com/dagmawibabi/telesight/internal/config"
)

const exportFixture = `{
	"name": "Test Group",
	"type": "private_supergroup",
	"id": 12345,
	"messages": [
		{"id": 1, "type": "message", "date": "2024-03-01T10:00:00", "from": "Alice", "from_id": "user1",
		 "text": "URGENT: please send me $500 immediately, family emergency",
		 "reactions": [{"emoji": "+", "count": 3}]},
		{"id": 2, "type": "message", "date": "2024-03-01T10:05:00", "from": "Bob", "from_id": "user2",
		 "text": "check this out #golang https://example.com/post", "reply_to_message_id": 1},
		{"id": 3, "type": "message", "date": "2024-03-01T11:00:00", "from": "Carol", "from_id": "user3",
		 "text": "more about #golang generics here", "forwarded_from": "Gopher Channel"},
		{"id": 4, "type": "service", "date": "2024-03-01T11:30:00", "actor": "Admin", "actor_id": "user9",
		 "action": "topic_created", "title": "Releases"},
		{"id": 5, "type": "message", "date": "2024-03-02T09:00:00", "from": "Alice", "from_id": "user1",
		 "text": "ok see you tomorrow"}
	]
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Port:            "0",
		Env:             "test",
		ArchiveCapacity: 4,
		MaxUploadBytes:  1 << 20,
	}
	router := NewRouter(zerolog.Nop(), cfg, archive.NewRegistry(cfg.ArchiveCapacity))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func uploadFixture(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp, err := http.Post(srv.URL+"/archives", "application/json", strings.NewReader(exportFixture))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}

	var entry struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Messages int    `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if entry.Name != "Test Group" || entry.Messages != 5 {
		t.Fatalf("entry = %+v", entry)
	}
	return entry.ID
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestArchiveLifecycle(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var list struct {
		Archives []struct {
			ID string `json:"id"`
		} `json:"archives"`
	}
	if status := getJSON(t, srv.URL+"/archives", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(list.Archives) != 1 || list.Archives[0].ID != id {
		t.Fatalf("list = %+v", list)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/archives/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestUploadValidation(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/archives", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed upload status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/archives", "application/json", strings.NewReader(`{"name":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no-messages upload status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/archives", "text/plain", strings.NewReader(exportFixture))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("text upload status = %d, want 415", resp.StatusCode)
	}
}

func TestDetectorEndpoints(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var out struct {
		Count   int `json:"count"`
		Results []struct {
			MessageID int    `json:"message_id"`
			Category  string `json:"category"`
			Severity  string `json:"severity"`
		} `json:"results"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/fraud", &out); status != http.StatusOK {
		t.Fatalf("fraud status = %d", status)
	}
	if out.Count != 1 || out.Results[0].MessageID != 1 {
		t.Fatalf("fraud results = %+v", out)
	}
	if out.Results[0].Category != "money_request" {
		t.Errorf("category = %q, want money_request", out.Results[0].Category)
	}

	// Category allow-list excludes the money_request hit.
	out.Count = -1
	out.Results = nil
	if status := getJSON(t, srv.URL+"/archives/"+id+"/fraud?types=phishing", &out); status != http.StatusOK {
		t.Fatalf("filtered fraud status = %d", status)
	}
	if out.Count != 0 {
		t.Errorf("filtered count = %d, want 0", out.Count)
	}

	var stats struct {
		Total      int            `json:"total"`
		BySeverity map[string]int `json:"by_severity"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/fraud/stats", &stats); status != http.StatusOK {
		t.Fatalf("stats status = %d", status)
	}
	if stats.Total != 1 {
		t.Errorf("stats total = %d, want 1", stats.Total)
	}

	for _, kind := range []string{"manipulation", "conflict"} {
		if status := getJSON(t, srv.URL+"/archives/"+id+"/"+kind, nil); status != http.StatusOK {
			t.Errorf("%s status = %d", kind, status)
		}
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/exchanges", nil); status != http.StatusOK {
		t.Errorf("exchanges status = %d", status)
	}
}

func TestGraphEndpoints(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var rg struct {
		Nodes              []struct{} `json:"nodes"`
		InternalReplyCount int        `json:"internal_reply_count"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/graph/replies", &rg); status != http.StatusOK {
		t.Fatalf("replies status = %d", status)
	}
	// Only reply participants become nodes: message 2 and its parent 1.
	if len(rg.Nodes) != 2 {
		t.Errorf("reply nodes = %d, want 2", len(rg.Nodes))
	}
	if rg.InternalReplyCount != 1 {
		t.Errorf("internal replies = %d, want 1", rg.InternalReplyCount)
	}

	var fg struct {
		SourceCount int `json:"source_count"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/graph/forwards", &fg); status != http.StatusOK {
		t.Fatalf("forwards status = %d", status)
	}
	if fg.SourceCount != 1 {
		t.Errorf("source count = %d, want 1", fg.SourceCount)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var members struct {
		Count   int `json:"count"`
		Members []struct {
			Key          string `json:"key"`
			MessageCount int    `json:"message_count"`
		} `json:"members"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/members", &members); status != http.StatusOK {
		t.Fatalf("members status = %d", status)
	}
	if members.Count != 3 {
		t.Fatalf("member count = %d, want 3", members.Count)
	}
	if members.Members[0].Key != "user1" || members.Members[0].MessageCount != 2 {
		t.Errorf("top member = %+v", members.Members[0])
	}

	if status := getJSON(t, srv.URL+"/archives/"+id+"/interactions", nil); status != http.StatusOK {
		t.Errorf("interactions status = %d", status)
	}

	var topics struct {
		Topics []struct {
			Name string `json:"name"`
		} `json:"topics"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/topics", &topics); status != http.StatusOK {
		t.Fatalf("topics status = %d", status)
	}
	if len(topics.Topics) != 1 || topics.Topics[0].Name != "Releases" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestPostEndpoints(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var score struct {
		MessageID  int     `json:"message_id"`
		Total      float64 `json:"total"`
		Percentile float64 `json:"percentile"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/posts/1/score", &score); status != http.StatusOK {
		t.Fatalf("score status = %d", status)
	}
	if score.MessageID != 1 || score.Total <= 0 {
		t.Errorf("score = %+v", score)
	}

	if status := getJSON(t, srv.URL+"/archives/"+id+"/posts/999/score", nil); status != http.StatusNotFound {
		t.Errorf("unknown post status = %d, want 404", status)
	}
	// Service messages are not scoreable posts.
	if status := getJSON(t, srv.URL+"/archives/"+id+"/posts/4/score", nil); status != http.StatusNotFound {
		t.Errorf("service post status = %d, want 404", status)
	}

	var similar struct {
		Similar []struct {
			MessageID int `json:"message_id"`
		} `json:"similar"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/posts/2/similar?limit=5", &similar); status != http.StatusOK {
		t.Fatalf("similar status = %d", status)
	}
	if len(similar.Similar) != 1 || similar.Similar[0].MessageID != 3 {
		t.Errorf("similar = %+v", similar)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	srv := testServer(t)
	id := uploadFixture(t, srv)

	var stats struct {
		TotalPosts int `json:"total_posts"`
		ActiveDays int `json:"active_days"`
	}
	if status := getJSON(t, srv.URL+"/archives/"+id+"/calendar?year=2024&month=3", &stats); status != http.StatusOK {
		t.Fatalf("calendar status = %d", status)
	}
	if stats.TotalPosts != 4 || stats.ActiveDays != 2 {
		t.Errorf("calendar = %+v", stats)
	}

	if status := getJSON(t, srv.URL+"/archives/"+id+"/calendar?month=13", nil); status != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", status)
	}
}

func TestUnknownArchive(t *testing.T) {
	srv := testServer(t)

	if status := getJSON(t, srv.URL+"/archives/0c7f9f9e-1df1-4a55-9a2e-3f1f0c9b2a10/members", nil); status != http.StatusNotFound {
		t.Errorf("unknown archive status = %d, want 404", status)
	}
	if status := getJSON(t, srv.URL+"/archives/not-a-uuid/members", nil); status != http.StatusBadRequest {
		t.Errorf("bad uuid status = %d, want 400", status)
	}
}

func TestHealthAndRoot(t *testing.T) {
	srv := testServer(t)

	var health struct {
		Status string `json:"status"`
	}
	if status := getJSON(t, srv.URL+"/health", &health); status != http.StatusOK {
		t.Fatalf("health status = %d", status)
	}
	if health.Status != "healthy" {
		t.Errorf("health = %+v", health)
	}

	var root struct {
		Name string `json:"name"`
	}
	if status := getJSON(t, srv.URL+"/", &root); status != http.StatusOK {
		t.Fatalf("root status = %d", status)
	}
	if root.Name != "telesight" {
		t.Errorf("root = %+v", root)
	}
}
