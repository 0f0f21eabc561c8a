// Package amsapi is the HTTP client for the attendance backend. It only
// shapes requests and decodes responses; validation, authorization, and all
// attendance computation happen on the backend.
package amsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx backend response reduced to something a screen can
// show the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Login exchanges credentials for the authenticated user and an access
// token. It is the only call that goes out without a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*User, string, error) {
	bodyBytes, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("prepare login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("authentication service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", errorFromResponse(resp, "invalid credentials")
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, "", &APIError{StatusCode: resp.StatusCode, Message: "login response missing access token"}
	}
	return &payload.User, payload.AccessToken, nil
}

func (c *Client) ClockIn(ctx context.Context, token string, payload ClockPayload) error {
	return c.clock(ctx, token, "/attendance/clock-in", payload)
}

func (c *Client) ClockOut(ctx context.Context, token string, payload ClockPayload) error {
	return c.clock(ctx, token, "/attendance/clock-out", payload)
}

func (c *Client) clock(ctx context.Context, token, path string, payload ClockPayload) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if payload.Lat != "" {
		if err := writer.WriteField("lat", payload.Lat); err != nil {
			return fmt.Errorf("encode clock payload: %w", err)
		}
	}
	if payload.Lng != "" {
		if err := writer.WriteField("lng", payload.Lng); err != nil {
			return fmt.Errorf("encode clock payload: %w", err)
		}
	}
	if len(payload.Selfie) > 0 {
		name := payload.SelfieName
		if name == "" {
			name = "selfie.jpg"
		}
		part, err := writer.CreateFormFile("selfie", name)
		if err != nil {
			return fmt.Errorf("encode selfie: %w", err)
		}
		if _, err := part.Write(payload.Selfie); err != nil {
			return fmt.Errorf("encode selfie: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize clock payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("prepare clock request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	authorize(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attendance service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, "unable to record attendance")
	}
	return nil
}

// MyAttendance lists the caller's attendance entries for one calendar date.
func (c *Client) MyAttendance(ctx context.Context, token, date string) ([]AttendanceEntry, error) {
	query := url.Values{"date": {date}}
	var entries []AttendanceEntry
	if err := c.getJSON(ctx, token, "/attendance/me?"+query.Encode(), &entries, "unable to load attendance"); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) SubmitCorrection(ctx context.Context, token string, submission CorrectionSubmission) error {
	bodyBytes, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("encode correction request: %w", err)
	}
	return c.postJSON(ctx, token, "/attendance/corrections", bodyBytes, "unable to submit correction")
}

// MyCorrections lists correction requests filed by the caller.
func (c *Client) MyCorrections(ctx context.Context, token string) ([]CorrectionRequest, error) {
	var corrections []CorrectionRequest
	if err := c.getJSON(ctx, token, "/attendance/corrections?mine=true", &corrections, "unable to load corrections"); err != nil {
		return nil, err
	}
	return corrections, nil
}

// AdminAttendance lists attendance for one date. An empty employeeID means
// all employees; the parameter is still sent so the backend treats the two
// cases uniformly.
func (c *Client) AdminAttendance(ctx context.Context, token, employeeID, date string) ([]AttendanceEntry, error) {
	query := url.Values{"employeeId": {employeeID}, "date": {date}}
	var entries []AttendanceEntry
	if err := c.getJSON(ctx, token, "/admin/attendance?"+query.Encode(), &entries, "unable to load attendance"); err != nil {
		return nil, err
	}
	return entries, nil
}

// AdminSummary lists attendance over the inclusive [from, to] date range.
func (c *Client) AdminSummary(ctx context.Context, token, employeeID, from, to string) ([]AttendanceEntry, error) {
	query := url.Values{"employeeId": {employeeID}, "from": {from}, "to": {to}}
	var entries []AttendanceEntry
	if err := c.getJSON(ctx, token, "/admin/attendance/summary?"+query.Encode(), &entries, "unable to load summary"); err != nil {
		return nil, err
	}
	return entries, nil
}

// PendingCorrections lists every correction awaiting a decision, across all
// employees.
func (c *Client) PendingCorrections(ctx context.Context, token string) ([]CorrectionRequest, error) {
	query := url.Values{"status": {StatusPending}}
	var corrections []CorrectionRequest
	if err := c.getJSON(ctx, token, "/attendance/corrections/all?"+query.Encode(), &corrections, "unable to load pending corrections"); err != nil {
		return nil, err
	}
	return corrections, nil
}

// Decide transitions one correction to APPROVED or REJECTED. The transition
// is one-directional; this client never sends PENDING.
func (c *Client) Decide(ctx context.Context, token, correctionID, status string) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid decision status %q", status)
	}
	bodyBytes, err := json.Marshal(decisionRequest{Status: status})
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	path := "/attendance/corrections/" + url.PathEscape(correctionID) + "/decision"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("prepare decision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	authorize(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("correction service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, "unable to record decision")
	}
	return nil
}

// Employees fetches the employee directory used by the admin filter.
func (c *Client) Employees(ctx context.Context, token string) ([]Employee, error) {
	var employees []Employee
	if err := c.getJSON(ctx, token, "/admin/employees", &employees, "unable to load employees"); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, out any, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	authorize(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attendance service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp, fallback)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, token, path string, body []byte, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	authorize(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attendance service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, fallback)
	}
	return nil
}

func authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func errorFromResponse(resp *http.Response, fallback string) error {
	msg := fallback
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var payload map[string]string
	if err := json.Unmarshal(respBody, &payload); err == nil {
		if payload["error"] != "" {
			msg = payload["error"]
		} else if payload["message"] != "" {
			msg = payload["message"]
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
