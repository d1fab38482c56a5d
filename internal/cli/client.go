package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// JobResponse — job из API.
type JobResponse struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Status     string         `json:"status"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  string         `json:"started_at,omitempty"`
	FinishedAt string         `json:"finished_at,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// DigestStatusResponse — состояние рассылки из API.
type DigestStatusResponse struct {
	RunDate      string       `json:"run_date"`
	LastSentDate string       `json:"last_sent_date,omitempty"`
	SendLock     string       `json:"send_lock,omitempty"`
	Job          *JobResponse `json:"job,omitempty"`
}

// TriggerDigestResponse — результат ручного триггера.
type TriggerDigestResponse struct {
	RunDate string       `json:"run_date"`
	Job     *JobResponse `json:"job,omitempty"`
}

// SendWelcomeRequest — постановка welcome-письма.
type SendWelcomeRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country,omitempty"`
	InvestmentGoals   string `json:"investment_goals,omitempty"`
	RiskTolerance     string `json:"risk_tolerance,omitempty"`
	PreferredIndustry string `json:"preferred_industry,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для операционного API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DigestStatus возвращает состояние рассылки за текущую дату.
func (c *Client) DigestStatus() (*DigestStatusResponse, error) {
	var status DigestStatusResponse
	err := c.get("/api/v1/digest/status", &status)
	return &status, err
}

// TriggerDigest вручную запускает постановку digest job.
func (c *Client) TriggerDigest() (*TriggerDigestResponse, error) {
	var result TriggerDigestResponse
	err := c.post("/api/v1/digest/trigger", nil, &result)
	return &result, err
}

// GetJob возвращает job по ID.
func (c *Client) GetJob(id string) (*JobResponse, error) {
	var job JobResponse
	err := c.get("/api/v1/jobs/"+id, &job)
	return &job, err
}

// SendWelcome ставит welcome-письмо в очередь.
func (c *Client) SendWelcome(req SendWelcomeRequest) (*JobResponse, error) {
	var job JobResponse
	err := c.post("/api/v1/welcome", req, &job)
	return &job, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
