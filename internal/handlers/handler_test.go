package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/dagmawibabi/telesight/internal/detect"
)

func TestDetectOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/archives/x/fraud?min_severity=high&types=phishing,%20money_request&limit=25", nil)
	opts := detectOptions(r)

	if opts.MinSeverity != "high" {
		t.Errorf("MinSeverity = %q", opts.MinSeverity)
	}
	if len(opts.Types) != 2 || opts.Types[0] != detect.Category("phishing") || opts.Types[1] != detect.Category("money_request") {
		t.Errorf("Types = %v", opts.Types)
	}
	if opts.MaxResults != 25 {
		t.Errorf("MaxResults = %d", opts.MaxResults)
	}
}

func TestDetectOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/archives/x/fraud?limit=oops", nil)
	opts := detectOptions(r)

	if opts.MinSeverity != "" || opts.Types != nil || opts.MaxResults != 0 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?limit=7&bad=zero&neg=-2", nil)

	if got := queryInt(r, "limit", 10); got != 7 {
		t.Errorf("limit = %d", got)
	}
	if got := queryInt(r, "missing", 10); got != 10 {
		t.Errorf("missing = %d", got)
	}
	if got := queryInt(r, "bad", 10); got != 10 {
		t.Errorf("bad = %d", got)
	}
	if got := queryInt(r, "neg", 10); got != 10 {
		t.Errorf("neg = %d", got)
	}
}
