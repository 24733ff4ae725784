// Package apicheck runs smoke checks against a deployed travel API.
package apicheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// snippetLen caps, in bytes, how much of a response body ends up in Details.
const snippetLen = 200

// Result is the outcome of one check.
type Result struct {
	Name    string
	Passed  bool
	Details string
}

// Report collects every check of a run.
type Report struct {
	Results                  []Result
	RecommendationsAttempted int
	RecommendationsSucceeded int
}

// Passed counts passing checks.
func (r Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// OK reports whether the deployment is healthy enough: at least two
// recommendation calls succeeded and at least 70% of checks passed.
func (r Report) OK() bool {
	if len(r.Results) == 0 {
		return false
	}
	return r.RecommendationsSucceeded >= 2 && r.Passed()*10 >= len(r.Results)*7
}

// Recommendation is one recommendations request the runner issues.
type Recommendation struct {
	Destination string
	Preferences string
}

// DefaultRecommendations mirrors the destinations exercised by the checks.
var DefaultRecommendations = []Recommendation{
	{Destination: "Paris"},
	{Destination: "Tokyo"},
	{Destination: "Bali"},
	{Destination: "New York", Preferences: "I love museums and fine dining"},
}

// Runner issues the checks against baseURL and reports each one to out.
type Runner struct {
	apiURL          string
	client          *http.Client
	out             io.Writer
	now             func() time.Time
	recommendations []Recommendation
}

// NewRunner constructs a Runner. recTimeout bounds each recommendations
// call; other calls use a 10 second timeout.
func NewRunner(baseURL string, out io.Writer, recTimeout time.Duration) *Runner {
	return &Runner{
		apiURL:          strings.TrimRight(baseURL, "/") + "/api",
		client:          &http.Client{Timeout: recTimeout},
		out:             out,
		now:             time.Now,
		recommendations: DefaultRecommendations,
	}
}

// WithRecommendations replaces the destinations the runner requests.
func (r *Runner) WithRecommendations(recs []Recommendation) *Runner {
	r.recommendations = recs
	return r
}

// Run executes all checks. If the root endpoint fails nothing else runs.
func (r *Runner) Run(ctx context.Context) Report {
	var rep Report
	record := func(res Result) {
		rep.Results = append(rep.Results, res)
		if res.Passed {
			fmt.Fprintf(r.out, "PASS %s\n", res.Name)
		} else {
			fmt.Fprintf(r.out, "FAIL %s: %s\n", res.Name, res.Details)
		}
	}

	root := r.checkRoot(ctx)
	record(root)
	if !root.Passed {
		return rep
	}

	for _, res := range r.checkStatus(ctx) {
		record(res)
	}

	for _, q := range r.recommendations {
		res := r.checkRecommendation(ctx, q)
		record(res)
		rep.RecommendationsAttempted++
		if res.Passed {
			rep.RecommendationsSucceeded++
		}
	}

	record(r.checkHistory(ctx))
	return rep
}

func (r *Runner) checkRoot(ctx context.Context) Result {
	res := Result{Name: "api root"}
	code, body, err := r.do(ctx, http.MethodGet, "/", nil, 10*time.Second)
	if err != nil {
		res.Details = err.Error()
		return res
	}
	res.Details = fmt.Sprintf("status %d", code)
	if code != http.StatusOK {
		return res
	}

	var msg map[string]any
	if err := json.Unmarshal(body, &msg); err != nil {
		res.Details += ", body is not JSON"
		return res
	}
	res.Passed = true
	return res
}

func (r *Runner) checkStatus(ctx context.Context) []Result {
	post := Result{Name: "status create"}
	clientName := "apicheck_" + r.now().Format("150405")
	code, body, err := r.do(ctx, http.MethodPost, "/status", map[string]string{"client_name": clientName}, 10*time.Second)
	switch {
	case err != nil:
		post.Details = err.Error()
	case code != http.StatusOK:
		post.Details = fmt.Sprintf("status %d: %s", code, snippet(body))
	default:
		post.Details, post.Passed = missingFields(body, "id", "client_name", "timestamp")
		if post.Passed {
			post.Details = "client " + clientName
		}
	}

	list := Result{Name: "status list"}
	code, body, err = r.do(ctx, http.MethodGet, "/status", nil, 10*time.Second)
	switch {
	case err != nil:
		list.Details = err.Error()
	case code != http.StatusOK:
		list.Details = fmt.Sprintf("status %d: %s", code, snippet(body))
	default:
		var entries []json.RawMessage
		if err := json.Unmarshal(body, &entries); err != nil {
			list.Details = "response is not a list"
		} else {
			list.Details = fmt.Sprintf("%d entries", len(entries))
			list.Passed = true
		}
	}

	return []Result{post, list}
}

func (r *Runner) checkRecommendation(ctx context.Context, q Recommendation) Result {
	res := Result{Name: fmt.Sprintf("recommendations (%s)", q.Destination)}
	payload := map[string]string{"destination": q.Destination}
	if q.Preferences != "" {
		payload["preferences"] = q.Preferences
	}

	code, body, err := r.do(ctx, http.MethodPost, "/recommendations", payload, 0)
	if err != nil {
		res.Details = err.Error()
		return res
	}
	if code != http.StatusOK {
		res.Details = fmt.Sprintf("status %d: %s", code, snippet(body))
		return res
	}

	details, ok := missingFields(body, "id", "query", "recommendations", "geographic_info", "climate_info", "created_at")
	if !ok {
		res.Details = details
		return res
	}

	var rec struct {
		Recommendations []json.RawMessage `json:"recommendations"`
		GeographicInfo  map[string]any    `json:"geographic_info"`
		ClimateInfo     map[string]any    `json:"climate_info"`
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		res.Details = fmt.Sprintf("decoding record: %v", err)
		return res
	}
	res.Details = fmt.Sprintf("%d recommendations, %d geographic fields, %d climate fields",
		len(rec.Recommendations), len(rec.GeographicInfo), len(rec.ClimateInfo))
	res.Passed = len(rec.Recommendations) > 0
	if !res.Passed {
		res.Details += ", no recommendations returned"
	}
	return res
}

func (r *Runner) checkHistory(ctx context.Context) Result {
	res := Result{Name: "recommendations history"}
	code, body, err := r.do(ctx, http.MethodGet, "/recommendations/history", nil, 10*time.Second)
	if err != nil {
		res.Details = err.Error()
		return res
	}
	if code != http.StatusOK {
		res.Details = fmt.Sprintf("status %d: %s", code, snippet(body))
		return res
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		res.Details = "response is not a list"
		return res
	}
	res.Details = fmt.Sprintf("%d entries", len(entries))
	if len(entries) > 0 {
		if details, ok := missingFields(entries[0], "id", "query", "recommendations", "geographic_info", "climate_info"); !ok {
			res.Details += ", " + details
			return res
		}
	}
	res.Passed = true
	return res
}

// do sends one request. A zero timeout leaves only the client's own timeout.
func (r *Runner) do(ctx context.Context, method, path string, payload any, timeout time.Duration) (int, []byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.apiURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func missingFields(body []byte, fields ...string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "response is not a JSON object", false
	}
	var missing []string
	for _, f := range fields {
		if _, ok := obj[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return "missing fields: " + strings.Join(missing, ", "), false
	}
	return "", true
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= snippetLen {
		return s
	}
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
