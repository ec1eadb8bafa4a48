package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nvoss/strongbox/internal/api/http/middleware"
)

// Client talks to the safe controller's web interface. The controller
// only speaks HTML forms, so requests are multipart posts and responses
// are scraped for the state heading and the outcome message.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the controller at baseURL using an
// existing session token. An empty token is fine for Login.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Login posts the credentials and returns the fresh session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.postForm(ctx, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		return "", fmt.Errorf("login rejected: %s", pageMessage(resp.Body))
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("login response carries no session cookie")
}

// Status fetches the current lock state wording.
func (c *Client) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/safe/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.addSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("controller answered %s", resp.Status)
	}
	return pageHeading(bytes.NewReader(body)), nil
}

// Do posts an operation form to /safe/ and returns the outcome message.
func (c *Client) Do(ctx context.Context, fields map[string]string) (string, error) {
	return c.post(ctx, "/safe/", fields)
}

// SetWiFi posts the access point form, which lives on the root path.
func (c *Client) SetWiFi(ctx context.Context, ssid, password string) (string, error) {
	return c.post(ctx, "/", map[string]string{
		"setwifi":  "Change",
		"ssid":     ssid,
		"password": password,
	})
}

func (c *Client) post(ctx context.Context, path string, fields map[string]string) (string, error) {
	resp, err := c.postForm(ctx, path, fields)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	message := pageMessage(resp.Body)
	switch {
	case resp.StatusCode == http.StatusOK:
		return message, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("session rejected, run \"safectl login\" again: %s", message)
	default:
		return "", fmt.Errorf("%s", message)
	}
}

func (c *Client) postForm(ctx context.Context, path string, fields map[string]string) (*http.Response, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.addSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) addSession(req *http.Request) {
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: c.token})
	}
}

// pageHeading pulls the <h2> heading out of a status page.
func pageHeading(r io.Reader) string {
	return firstBetween(r, "<h2>", "</h2>")
}

// pageMessage pulls the outcome paragraph out of a response page.
func pageMessage(r io.Reader) string {
	message := firstBetween(r, "<p>", "</p>")
	message = strings.TrimPrefix(message, "<b>")
	message = strings.TrimSuffix(message, "</b>")
	if message == "" {
		return "no message"
	}
	return message
}

func firstBetween(r io.Reader, opening, closing string) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	page := string(body)
	start := strings.Index(page, opening)
	if start < 0 {
		return ""
	}
	start += len(opening)
	end := strings.Index(page[start:], closing)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(page[start : start+end])
}
