// Package tracker talks to the Notion-backed task database: listing tasks,
// creating action items, and moving statuses.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"
)

// Store is the slice of tracker behavior the reconciliation and standup
// layers depend on.
type Store interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title, assignee string, status models.TaskStatus, due *time.Time) (string, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error
}

// Client is a task tracker client over the Notion REST API.
type Client struct {
	token      string
	databaseID string

	// BaseURL is overridable for tests; everything else goes to the
	// public API host.
	BaseURL string

	httpClient *http.Client
}

// NewClient creates a tracker client for one task database.
func NewClient(token, databaseID string) *Client {
	return &Client{
		token:      token,
		databaseID: databaseID,
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// DatabaseID returns the task database this client operates on.
func (c *Client) DatabaseID() string {
	return c.databaseID
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
	Text      struct {
		Content string `json:"content"`
	} `json:"text"`
}

type pageProperties struct {
	Task struct {
		Title []richText `json:"title"`
	} `json:"Task"`
	Assignee struct {
		RichText []richText `json:"rich_text"`
	} `json:"Assignee"`
	Status struct {
		Select *struct {
			Name string `json:"name"`
		} `json:"select"`
	} `json:"Status"`
	DueDate struct {
		Date *struct {
			Start string `json:"start"`
		} `json:"date"`
	} `json:"Due date"`
}

// ListTasks fetches every task in the database, following pagination.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	cursor := ""

	for {
		payload := map[string]interface{}{}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}
		data, _ := json.Marshal(payload)

		url := fmt.Sprintf("%s/v1/databases/%s/query", c.BaseURL, c.databaseID)
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(data))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tracker query failed: %w", err)
		}

		var page struct {
			Results []struct {
				ID         string         `json:"id"`
				Properties pageProperties `json:"properties"`
			} `json:"results"`
			HasMore    bool   `json:"has_more"`
			NextCursor string `json:"next_cursor"`
		}
		if err := decodeResponse(resp, "tracker query", &page); err != nil {
			return nil, err
		}

		for _, result := range page.Results {
			tasks = append(tasks, taskFromProperties(result.ID, result.Properties))
		}

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return tasks, nil
}

// CreateTask adds a new task row and returns its page id.
func (c *Client) CreateTask(ctx context.Context, title, assignee string, status models.TaskStatus, due *time.Time) (string, error) {
	properties := map[string]interface{}{
		"Task": map[string]interface{}{
			"title": []map[string]interface{}{
				{"text": map[string]string{"content": title}},
			},
		},
		"Assignee": map[string]interface{}{
			"rich_text": []map[string]interface{}{
				{"text": map[string]string{"content": assignee}},
			},
		},
		"Status": map[string]interface{}{
			"select": map[string]string{"name": string(status)},
		},
	}
	if due != nil {
		properties["Due date"] = map[string]interface{}{
			"date": map[string]string{"start": due.Format("2006-01-02")},
		}
	}

	payload := map[string]interface{}{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": properties,
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/pages", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tracker create failed: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(resp, "tracker create", &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateTaskStatus moves a task to the given status.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	payload := map[string]interface{}{
		"properties": map[string]interface{}{
			"Status": map[string]interface{}{
				"select": map[string]string{"name": string(status)},
			},
		},
	}
	data, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/v1/pages/%s", c.BaseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, "PATCH", url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracker update failed: %w", err)
	}

	var updated struct {
		ID string `json:"id"`
	}
	return decodeResponse(resp, "tracker update", &updated)
}

// EnsureDatabase creates the task database under the configured parent page
// and returns its id. The caller stores the id in configuration for later runs.
func (c *Client) EnsureDatabase(ctx context.Context, parentPageID string) (string, error) {
	if parentPageID == "" {
		return "", fmt.Errorf("tracker parent_page_id is required to create the database")
	}

	payload := map[string]interface{}{
		"parent": map[string]string{"type": "page_id", "page_id": parentPageID},
		"title": []map[string]interface{}{
			{"type": "text", "text": map[string]string{"content": "Task Tracker"}},
		},
		"properties": map[string]interface{}{
			"Task":     map[string]interface{}{"title": map[string]interface{}{}},
			"Assignee": map[string]interface{}{"rich_text": map[string]interface{}{}},
			"Status": map[string]interface{}{
				"select": map[string]interface{}{
					"options": []map[string]string{
						{"name": string(models.StatusToDo), "color": "red"},
						{"name": string(models.StatusInProgress), "color": "yellow"},
						{"name": string(models.StatusDone), "color": "green"},
					},
				},
			},
			"Due date": map[string]interface{}{"date": map[string]interface{}{}},
		},
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/databases", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tracker database create failed: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(resp, "tracker database create", &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")
}

// decodeResponse closes resp.Body, turns non-2xx statuses into errors
// carrying a body excerpt, and decodes the JSON body into out.
func decodeResponse(resp *http.Response, operation string, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s failed: %s: %s", operation, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

func taskFromProperties(id string, props pageProperties) models.Task {
	task := models.Task{ID: id}

	var title strings.Builder
	for _, segment := range props.Task.Title {
		if segment.PlainText != "" {
			title.WriteString(segment.PlainText)
		} else {
			title.WriteString(segment.Text.Content)
		}
	}
	task.Title = title.String()

	var assignee strings.Builder
	for _, segment := range props.Assignee.RichText {
		if segment.PlainText != "" {
			assignee.WriteString(segment.PlainText)
		} else {
			assignee.WriteString(segment.Text.Content)
		}
	}
	task.Assignee = assignee.String()

	if props.Status.Select != nil {
		task.Status = models.TaskStatus(props.Status.Select.Name)
	}

	if props.DueDate.Date != nil && props.DueDate.Date.Start != "" {
		if due, err := parseDate(props.DueDate.Date.Start); err == nil {
			task.Due = &due
		}
	}

	return task
}

// parseDate accepts both date-only and full timestamp forms, which the
// tracker uses interchangeably.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
