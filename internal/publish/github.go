package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	defaultGitHubBaseURL = "https://api.github.com"
	defaultGitHubTimeout = 30 * time.Second
)

// GitHubOption configures a GitHub publisher.
type GitHubOption func(*GitHub)

// WithGitHubBaseURL overrides the API base URL.
func WithGitHubBaseURL(url string) GitHubOption {
	return func(g *GitHub) {
		g.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the request timeout. Zero keeps the 30s default.
func WithTimeout(d time.Duration) GitHubOption {
	return func(g *GitHub) {
		if d > 0 {
			g.client.Timeout = d
		}
	}
}

// GitHub creates issues in one repository.
type GitHub struct {
	token   string
	repo    string // "owner/name"
	baseURL string
	client  *http.Client
}

// NewGitHub creates a GitHub issue publisher for repo ("owner/name").
func NewGitHub(token, repo string, opts ...GitHubOption) *GitHub {
	g := &GitHub{
		token:   token,
		repo:    repo,
		baseURL: defaultGitHubBaseURL,
		client:  &http.Client{Timeout: defaultGitHubTimeout},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

type issueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type issueResponse struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// Publish creates an issue and returns its html_url. Any status other than
// 201 yields a *TrackerError.
func (g *GitHub) Publish(ctx context.Context, title, body string) (string, error) {
	payload, err := json.Marshal(issueRequest{Title: title, Body: body})
	if err != nil {
		return "", eris.Wrap(err, "publish: marshal issue")
	}

	url := g.baseURL + "/repos/" + g.repo + "/issues"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "publish: create request")
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	zap.L().Info("publish: creating github issue", zap.String("repo", g.repo), zap.String("title", title))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "publish: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "publish: read response")
	}

	if resp.StatusCode != http.StatusCreated {
		return "", &TrackerError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var issue issueResponse
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return "", eris.Wrap(err, "publish: unmarshal response")
	}
	if issue.HTMLURL == "" {
		return "Unknown URL", nil
	}
	return issue.HTMLURL, nil
}
