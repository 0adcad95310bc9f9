package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/internal/report"
)

func TestGitHub_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/owner/repo/issues", r.URL.Path)
		assert.Equal(t, "token gh-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req issueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Weekly", req.Title)
		assert.Equal(t, "body text", req.Body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 12, "html_url": "https://github.com/owner/repo/issues/12"}`))
	}))
	defer srv.Close()

	g := NewGitHub("gh-test", "owner/repo", WithGitHubBaseURL(srv.URL+"/"))
	url, err := g.Publish(context.Background(), "Weekly", "body text")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo/issues/12", url)
}

func TestGitHub_PublishMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 1}`))
	}))
	defer srv.Close()

	url, err := NewGitHub("t", "o/r", WithGitHubBaseURL(srv.URL)).Publish(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "Unknown URL", url)
}

func TestGitHub_PublishTrackerError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Bad credentials"}`},
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`},
		{"ok is not created", http.StatusOK, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGitHub("t", "o/r", WithGitHubBaseURL(srv.URL)).Publish(context.Background(), "a", "b")
			require.Error(t, err)

			var te *TrackerError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.body, te.Body)
			assert.Contains(t, err.Error(), "status")
		})
	}
}

func TestGitHub_PublishTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := NewGitHub("t", "o/r", WithGitHubBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := g.Publish(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish: send request")

	var te *TrackerError
	assert.False(t, errors.As(err, &te))
}

func TestNewGitHub_Defaults(t *testing.T) {
	g := NewGitHub("t", "o/r", WithTimeout(0))
	assert.Equal(t, defaultGitHubBaseURL, g.baseURL)
	assert.Equal(t, defaultGitHubTimeout, g.client.Timeout)
}

type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *mockNotion) AppendBlockChildren(ctx context.Context, blockID string, children []notionapi.Block) error {
	return m.Called(ctx, blockID, children).Error(0)
}

func TestNotion_Publish(t *testing.T) {
	mc := new(mockNotion)
	mc.On("CreatePage", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		return req.Parent.DatabaseID == "db-1"
	})).Return(&notionapi.Page{ID: "p1", URL: "https://notion.so/p1"}, nil)

	url, err := NewNotion(mc, "db-1", time.Minute).Publish(context.Background(), "title", "line one\nline two")
	require.NoError(t, err)
	assert.Equal(t, "https://notion.so/p1", url)
	mc.AssertExpectations(t)
}

func TestNotion_PublishError(t *testing.T) {
	mc := new(mockNotion)
	mc.On("CreatePage", mock.Anything, mock.Anything).Return(nil, errors.New("validation_error"))

	_, err := NewNotion(mc, "db-1", 0).Publish(context.Background(), "title", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish: notion page")
}

func TestNew(t *testing.T) {
	p, err := New(config.TrackerConfig{Kind: config.TrackerGitHub, Token: "t", Repo: "o/r", BaseURL: "https://ghe.example.com/api/v3", TimeoutSecs: 5})
	require.NoError(t, err)
	g, ok := p.(*GitHub)
	require.True(t, ok)
	assert.Equal(t, "https://ghe.example.com/api/v3", g.baseURL)
	assert.Equal(t, 5*time.Second, g.client.Timeout)

	p, err = New(config.TrackerConfig{Kind: config.TrackerNotion, Token: "secret", NotionDatabase: "db"})
	require.NoError(t, err)
	assert.IsType(t, &Notion{}, p)

	_, err = New(config.TrackerConfig{Kind: "jira"})
	require.Error(t, err)
}

func TestWriteBackup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2025, 3, 14, 9, 5, 7, 0, time.UTC)
	r := report.Report{Title: "🔬 Weekly", Body: "## body\n"}

	path, err := WriteBackup(dir, now, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "research_report_20250314_090507.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 🔬 Weekly\n\n## body\n", string(data))
}

func TestWriteBackup_Unwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := WriteBackup(file, time.Now(), report.Report{})
	require.Error(t, err)
}

func TestBackupName(t *testing.T) {
	assert.Equal(t, "research_report_20241231_235959.md",
		BackupName(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestWriteFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFallback(&buf, report.Report{Title: "T", Body: "B"}))

	sep := "=================================================="
	assert.Equal(t, sep+"\nTITLE: T\n"+sep+"\nB\n", buf.String())
}
