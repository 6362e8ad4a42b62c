package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

type fakeTranscriber struct {
	transcript string
	err        error
	filename   string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	f.filename = filename
	_, _ = io.Copy(io.Discard, audio)
	return f.transcript, f.err
}

type fakeIngestor struct {
	title      string
	transcript string
}

func (f *fakeIngestor) Process(_ context.Context, title, transcript string) *models.MeetingRecord {
	f.title = title
	f.transcript = transcript
	return &models.MeetingRecord{
		ID:               "m-1",
		Title:            title,
		Transcript:       transcript,
		FormattedSummary: "notes",
		TasksCreated:     2,
	}
}

type fakeCommits struct {
	commits []models.Commit
	err     error
}

func (f *fakeCommits) ListCommits(context.Context) ([]models.Commit, error) {
	return f.commits, f.err
}

func (f *fakeCommits) Repo() string { return "acme/widgets" }

type fakeSweeper struct {
	swept   int
	updated int
}

func (f *fakeSweeper) Sweep(_ context.Context, commits []models.Commit) int {
	f.swept = len(commits)
	return f.updated
}

type fakeStandup struct{ err error }

func (f *fakeStandup) Run(context.Context) error { return f.err }

type fakeBootstrap struct {
	id     string
	err    error
	parent string
}

func (f *fakeBootstrap) EnsureDatabase(_ context.Context, parentPageID string) (string, error) {
	f.parent = parentPageID
	return f.id, f.err
}

func newTestServer(deps Deps) *Server {
	return NewServer(8080, deps)
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	s := newTestServer(Deps{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string            `json:"status"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Status)
	assert.Contains(t, body.Endpoints, "/transcribe")
	assert.Contains(t, body.Endpoints, "/send-standup")
}

func TestHealth(t *testing.T) {
	s := newTestServer(Deps{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func multipartUpload(t *testing.T, title string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "standup.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("riff-audio-bytes"))
	require.NoError(t, err)
	if title != "" {
		require.NoError(t, w.WriteField("meetingTitle", title))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestTranscribeMeeting(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "we discussed the roadmap"}
	ingestor := &fakeIngestor{}
	s := newTestServer(Deps{Transcriber: transcriber, Pipeline: ingestor})

	body, contentType := multipartUpload(t, "Sprint Planning")
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)

	rec := doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "standup.wav", transcriber.filename)
	assert.Equal(t, "Sprint Planning", ingestor.title)
	assert.Equal(t, "we discussed the roadmap", ingestor.transcript)

	var resp struct {
		Status  string               `json:"status"`
		Meeting models.MeetingRecord `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Sprint Planning", resp.Meeting.Title)
	assert.Equal(t, 2, resp.Meeting.TasksCreated)
}

func TestTranscribeMeetingDefaultTitle(t *testing.T) {
	ingestor := &fakeIngestor{}
	s := newTestServer(Deps{Transcriber: &fakeTranscriber{transcript: "text"}, Pipeline: ingestor})

	body, contentType := multipartUpload(t, "")
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)

	rec := doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Untitled Meeting", ingestor.title)
}

func TestTranscribeMeetingNoFile(t *testing.T) {
	s := newTestServer(Deps{Transcriber: &fakeTranscriber{}, Pipeline: &fakeIngestor{}})

	req := httptest.NewRequest(http.MethodPost, "/transcribe", nil)
	rec := doRequest(s, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no file uploaded")
}

func TestTranscribeMeetingUpstreamFailure(t *testing.T) {
	s := newTestServer(Deps{
		Transcriber: &fakeTranscriber{err: errors.New("model not loaded")},
		Pipeline:    &fakeIngestor{},
	})

	body, contentType := multipartUpload(t, "Sync")
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)

	rec := doRequest(s, req)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "transcription failed")
}

func TestCheckCommits(t *testing.T) {
	commits := &fakeCommits{commits: []models.Commit{
		{SHA: "aaa", Message: "Fix bug #42"},
		{SHA: "bbb", Message: "Add docs"},
	}}
	sweeper := &fakeSweeper{updated: 1}
	s := newTestServer(Deps{Commits: commits, Matcher: sweeper})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/check-commits", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status         string `json:"status"`
		CommitsChecked int    `json:"commits_checked"`
		TasksUpdated   int    `json:"tasks_updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 2, body.CommitsChecked)
	assert.Equal(t, 1, body.TasksUpdated)
	assert.Equal(t, 2, sweeper.swept)
}

func TestCheckCommitsUpstreamFailure(t *testing.T) {
	s := newTestServer(Deps{Commits: &fakeCommits{err: errors.New("401 bad credentials")}, Matcher: &fakeSweeper{}})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/check-commits", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "commit fetch failed")
}

func TestCommitHistory(t *testing.T) {
	authored := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	commits := &fakeCommits{commits: []models.Commit{
		{SHA: "aaa1112223334445556667778889990001112223", AuthorLogin: "asha-rao", Message: "Fix bug #42", AuthoredAt: authored},
		{SHA: "bbb2223334445556667778889990001112223334", AuthorLogin: "", Message: "Initial import", AuthoredAt: authored},
	}}
	s := newTestServer(Deps{Commits: commits})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/commit-history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Repository   string              `json:"repository"`
		TotalCommits int                 `json:"total_commits"`
		Commits      []map[string]string `json:"commits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "acme/widgets", body.Repository)
	assert.Equal(t, 2, body.TotalCommits)
	require.Len(t, body.Commits, 2)
	assert.Equal(t, "aaa1112", body.Commits[0]["sha"])
	assert.Equal(t, "asha-rao", body.Commits[0]["author"])
	assert.Equal(t, "Unknown", body.Commits[1]["author"], "commits without a linked account display Unknown")
}

func TestSendStandup(t *testing.T) {
	s := newTestServer(Deps{Standup: &fakeStandup{}})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/send-standup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "standup cycle completed")
}

func TestSendStandupFailure(t *testing.T) {
	s := newTestServer(Deps{Standup: &fakeStandup{err: errors.New("webhook gone")}})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/send-standup", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "standup cycle failed")
}

func TestInitDatabase(t *testing.T) {
	bootstrap := &fakeBootstrap{id: "db-123"}
	s := newTestServer(Deps{Tracker: bootstrap, ParentPageID: "page-9"})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/init-db", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "db-123")
	assert.Equal(t, "page-9", bootstrap.parent)
}

func TestInitDatabaseFailure(t *testing.T) {
	s := newTestServer(Deps{Tracker: &fakeBootstrap{err: errors.New("no parent page configured")}})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/init-db", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "database bootstrap failed")
}
