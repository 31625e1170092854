// Package telesight provides a client for the telesight chat archive
// analysis API.
package telesight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a telesight API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client for the given server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telesight error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs an HTTP request and decodes the error envelope on
// failure.
func (c *Client) doRequest(method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	return respBody, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(respBody, out)
}

// Archive is one registered export on the server.
type Archive struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Messages   int       `json:"messages"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadArchive uploads a raw export JSON document.
func (c *Client) UploadArchive(export io.Reader) (*Archive, error) {
	data, err := io.ReadAll(export)
	if err != nil {
		return nil, err
	}
	respBody, err := c.doRequest("POST", "/archives", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var a Archive
	if err := json.Unmarshal(respBody, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArchives lists registered archives, newest first.
func (c *Client) ListArchives() ([]Archive, error) {
	var resp struct {
		Archives []Archive `json:"archives"`
	}
	if err := c.getJSON("/archives", &resp); err != nil {
		return nil, err
	}
	return resp.Archives, nil
}

// DeleteArchive removes an archive from the server.
func (c *Client) DeleteArchive(id string) error {
	_, err := c.doRequest("DELETE", "/archives/"+id, nil)
	return err
}

// Detection is one flagged message.
type Detection struct {
	MessageID int       `json:"message_id"`
	Sender    string    `json:"sender"`
	SenderKey string    `json:"sender_key"`
	Excerpt   string    `json:"excerpt"`
	Category  string    `json:"category"`
	Score     int       `json:"score"`
	Severity  string    `json:"severity"`
	Reasons   []string  `json:"reasons"`
	Language  string    `json:"language,omitempty"`
	Time      time.Time `json:"time"`
}

// DetectOptions filters detector output.
type DetectOptions struct {
	MinSeverity string
	Types       []string
	Limit       int
}

func (o DetectOptions) query() string {
	q := url.Values{}
	if o.MinSeverity != "" {
		q.Set("min_severity", o.MinSeverity)
	}
	if len(o.Types) > 0 {
		q.Set("types", strings.Join(o.Types, ","))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Detect runs one of the detectors ("fraud", "manipulation", "conflict").
func (c *Client) Detect(archiveID, kind string, opts DetectOptions) ([]Detection, error) {
	var resp struct {
		Results []Detection `json:"results"`
	}
	path := fmt.Sprintf("/archives/%s/%s%s", archiveID, kind, opts.query())
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Contributor is one sender in a detector leaderboard.
type Contributor struct {
	Sender    string `json:"sender"`
	SenderKey string `json:"sender_key"`
	Messages  int    `json:"messages"`
	Score     int    `json:"score"`
}

// DetectStats aggregates detector output over a whole archive.
type DetectStats struct {
	Total           int            `json:"total"`
	ByType          map[string]int `json:"by_type"`
	BySeverity      map[string]int `json:"by_severity"`
	TopContributors []Contributor  `json:"top_contributors"`
}

// Stats fetches the aggregate stats for one detector kind.
func (c *Client) Stats(archiveID, kind string) (*DetectStats, error) {
	var resp DetectStats
	path := fmt.Sprintf("/archives/%s/%s/stats", archiveID, kind)
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Exchange is one heated exchange window.
type Exchange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	MessageIDs    []int     `json:"message_ids"`
	Participants  []string  `json:"participants"`
	MessageCount  int       `json:"message_count"`
	PeakIntensity int       `json:"peak_intensity"`
}

// Exchanges fetches heated exchange windows.
func (c *Client) Exchanges(archiveID string) ([]Exchange, error) {
	var resp struct {
		Exchanges []Exchange `json:"exchanges"`
	}
	if err := c.getJSON("/archives/"+archiveID+"/exchanges", &resp); err != nil {
		return nil, err
	}
	return resp.Exchanges, nil
}

// Node is one graph node.
type Node struct {
	ID         int     `json:"id"`
	Sender     string  `json:"sender,omitempty"`
	Label      string  `json:"label"`
	Reactions  int     `json:"reactions"`
	Radius     float64 `json:"radius"`
	IsExternal bool    `json:"is_external,omitempty"`
	IsHub      bool    `json:"is_hub,omitempty"`
}

// Edge is a directed parent to child link.
type Edge struct {
	Parent int `json:"parent"`
	Child  int `json:"child"`
}

// Chain is one connected component of a graph.
type Chain struct {
	ID        int   `json:"id"`
	RootID    int   `json:"root_id"`
	NodeIDs   []int `json:"node_ids"`
	NodeCount int   `json:"node_count"`
	Depth     int   `json:"depth"`
}

// ReplyGraph is a reply-thread reconstruction.
type ReplyGraph struct {
	Nodes              []Node  `json:"nodes"`
	Edges              []Edge  `json:"edges"`
	Chains             []Chain `json:"chains"`
	InternalReplyCount int     `json:"internal_reply_count"`
	ExternalReplyCount int     `json:"external_reply_count"`
}

// GetReplyGraph fetches the reply graph of an archive.
func (c *Client) GetReplyGraph(archiveID string, crossChannel bool) (*ReplyGraph, error) {
	path := "/archives/" + archiveID + "/graph/replies"
	if crossChannel {
		path += "?cross_channel=true"
	}
	var resp ReplyGraph
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForwardGraph is a forward-source reconstruction.
type ForwardGraph struct {
	Nodes       []Node  `json:"nodes"`
	Edges       []Edge  `json:"edges"`
	Chains      []Chain `json:"chains"`
	SourceCount int     `json:"source_count"`
}

// GetForwardGraph fetches the forward graph of an archive.
func (c *Client) GetForwardGraph(archiveID string) (*ForwardGraph, error) {
	var resp ForwardGraph
	if err := c.getJSON("/archives/"+archiveID+"/graph/forwards", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Member is one sender's aggregate statistics.
type Member struct {
	Key               string    `json:"key"`
	Name              string    `json:"name"`
	MessageCount      int       `json:"message_count"`
	TotalTextLength   int       `json:"total_text_length"`
	AvgTextLength     float64   `json:"avg_text_length"`
	MediaCount        int       `json:"media_count"`
	ReplyCount        int       `json:"reply_count"`
	ReactionsReceived int       `json:"reactions_received"`
	ReactionsSent     int       `json:"reactions_sent"`
	FavoriteEmoji     string    `json:"favorite_emoji,omitempty"`
	HourHistogram     [24]int   `json:"hour_histogram"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
}

// Members fetches the member leaderboard.
func (c *Client) Members(archiveID string) ([]Member, error) {
	var resp struct {
		Members []Member `json:"members"`
	}
	if err := c.getJSON("/archives/"+archiveID+"/members", &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// Interaction is one undirected member pair.
type Interaction struct {
	A             string `json:"a"`
	B             string `json:"b"`
	AName         string `json:"a_name,omitempty"`
	BName         string `json:"b_name,omitempty"`
	ReplyCount    int    `json:"reply_count"`
	ReactionCount int    `json:"reaction_count"`
	Strength      int    `json:"strength"`
}

// Interactions fetches the interaction map.
func (c *Client) Interactions(archiveID string) ([]Interaction, error) {
	var resp struct {
		Edges []Interaction `json:"edges"`
	}
	if err := c.getJSON("/archives/"+archiveID+"/interactions", &resp); err != nil {
		return nil, err
	}
	return resp.Edges, nil
}

// Topic is one created forum topic.
type Topic struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	MessageCount int    `json:"message_count"`
}

// Topics fetches the topic list.
func (c *Client) Topics(archiveID string) ([]Topic, error) {
	var resp struct {
		Topics []Topic `json:"topics"`
	}
	if err := c.getJSON("/archives/"+archiveID+"/topics", &resp); err != nil {
		return nil, err
	}
	return resp.Topics, nil
}

// Breakdown is the per-component engagement score.
type Breakdown struct {
	Reactions float64 `json:"reactions"`
	Length    float64 `json:"length"`
	Media     float64 `json:"media"`
	Link      float64 `json:"link"`
	Reply     float64 `json:"reply"`
	Forward   float64 `json:"forward"`
}

// PostScore is the engagement score of one post.
type PostScore struct {
	MessageID  int       `json:"message_id"`
	Total      float64   `json:"total"`
	Breakdown  Breakdown `json:"breakdown"`
	Percentile float64   `json:"percentile"`
	Label      string    `json:"label"`
}

// Score fetches the engagement score of one post.
func (c *Client) Score(archiveID string, messageID int) (*PostScore, error) {
	var resp PostScore
	path := fmt.Sprintf("/archives/%s/posts/%d/score", archiveID, messageID)
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimilarPost is one similarity candidate.
type SimilarPost struct {
	MessageID int      `json:"message_id"`
	Sender    string   `json:"sender"`
	Excerpt   string   `json:"excerpt"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
}

// Similar fetches posts similar to the given one.
func (c *Client) Similar(archiveID string, messageID, limit int) ([]SimilarPost, error) {
	var resp struct {
		Similar []SimilarPost `json:"similar"`
	}
	path := fmt.Sprintf("/archives/%s/posts/%d/similar", archiveID, messageID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return resp.Similar, nil
}

// CalendarScope narrows calendar stats: zero fields mean "any".
type CalendarScope struct {
	Year  int
	Month int
	Day   int
}

// CalendarStats is the aggregate rollup for one calendar scope.
type CalendarStats struct {
	TotalPosts           int     `json:"total_posts"`
	TotalReactions       int     `json:"total_reactions"`
	TotalMedia           int     `json:"total_media"`
	TotalLinks           int     `json:"total_links"`
	TotalForwards        int     `json:"total_forwards"`
	BusiestHour          int     `json:"busiest_hour"`
	BusiestWeekday       string  `json:"busiest_weekday"`
	StreakDays           int     `json:"streak_days"`
	ActiveDays           int     `json:"active_days"`
	AvgPostsPerActiveDay float64 `json:"avg_posts_per_active_day"`
}

// Calendar fetches time-window stats for an archive.
func (c *Client) Calendar(archiveID string, scope CalendarScope) (*CalendarStats, error) {
	q := url.Values{}
	if scope.Year > 0 {
		q.Set("year", strconv.Itoa(scope.Year))
	}
	if scope.Month > 0 {
		q.Set("month", strconv.Itoa(scope.Month))
	}
	if scope.Day > 0 {
		q.Set("day", strconv.Itoa(scope.Day))
	}
	path := "/archives/" + archiveID + "/calendar"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp CalendarStats
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health is the server health report.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Archives  int    `json:"archives"`
	Timestamp string `json:"timestamp"`
}

// GetHealth checks server health.
func (c *Client) GetHealth() (*Health, error) {
	var resp Health
	if err := c.getJSON("/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
