// Package api implements the REST client for the fortune-telling backend.
// The backend is a black box described only by its endpoint contract; every
// method maps to exactly one endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production host.
const DefaultBaseURL = "https://api.aigcteacher.top"

// Endpoint paths, relative to the base URL.
const (
	pathEmailLogin    = "/admin/user/login"
	pathPhoneLogin    = "/admin/user/phone_login"
	pathRegister      = "/admin/user/register"
	pathSendSMS       = "/admin/user/send_sms"
	pathUpdateProfile = "/admin/user/update_profile"
	pathBalance       = "/admin/user/balance"
	pathInviteCode    = "/admin/user/invite_code"
	pathSetReferrer   = "/admin/balance/set_referrer"
	pathNextQuestion  = "/biz/core/next_question"
)

// ErrRequestFailed is the generic fallback when the backend gives no usable
// message.
var ErrRequestFailed = errors.New("请求失败，请稍后再试")

// Client talks to the backend over JSON/HTTP with a bounded timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL; an empty base URL means
// production. The timeout bounds every call, transfers included.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EmailLogin exchanges email+password for a token.
func (c *Client) EmailLogin(ctx context.Context, req EmailLoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, pathEmailLogin, "", req, &resp); err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" {
		return LoginResponse{}, fmt.Errorf("login: %w", errorFromMessage(resp.Message))
	}
	return resp, nil
}

// PhoneLogin exchanges phone+SMS code for a token; the backend registers the
// number on first use.
func (c *Client) PhoneLogin(ctx context.Context, req PhoneLoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, pathPhoneLogin, "", req, &resp); err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" {
		return LoginResponse{}, fmt.Errorf("phone login: %w", errorFromMessage(resp.Message))
	}
	return resp, nil
}

// Register creates an email account. It does not issue a token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, pathRegister, "", req, &resp); err != nil {
		return RegisterResponse{}, err
	}
	return resp, nil
}

// SendSMSCode asks the backend to text a login code.
func (c *Client) SendSMSCode(ctx context.Context, phoneNumber string) error {
	return c.post(ctx, pathSendSMS, "", SendSMSRequest{PhoneNumber: phoneNumber}, nil)
}

// UpdateProfile rewrites the account's username and email.
func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) error {
	return c.post(ctx, pathUpdateProfile, token, req, nil)
}

// GetBalance fetches the current coin balance.
func (c *Client) GetBalance(ctx context.Context, token string) (int, error) {
	var resp BalanceResponse
	if err := c.get(ctx, pathBalance, token, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// GetInviteCode fetches the account's invite code.
func (c *Client) GetInviteCode(ctx context.Context, token string) (string, error) {
	var resp InviteCodeResponse
	if err := c.get(ctx, pathInviteCode, token, &resp); err != nil {
		return "", err
	}
	return resp.InviteCode, nil
}

// SetReferrer redeems another user's invite code.
func (c *Client) SetReferrer(ctx context.Context, token, code string) error {
	var resp SetReferrerResponse
	if err := c.post(ctx, pathSetReferrer, token, SetReferrerRequest{Code: code}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("set referrer: %w", errorFromMessage(resp.Message))
	}
	return nil
}

// NextQuestion submits the transcript and returns the deity's answer. A 2xx
// body without success or without an answer is a protocol error.
func (c *Client) NextQuestion(ctx context.Context, token string, req NextQuestionRequest) (string, error) {
	var resp NextQuestionResponse
	if err := c.post(ctx, pathNextQuestion, token, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Data.Question.Answer == "" {
		return "", fmt.Errorf("next question: %w", errorFromMessage(resp.Message))
	}
	return resp.Data.Question.Answer, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, token, out)
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, errorFromBody(data))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromBody extracts the backend's message field from an error body.
func errorFromBody(data []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return errors.New(body.Message)
	}
	return ErrRequestFailed
}

func errorFromMessage(message string) error {
	if message != "" {
		return errors.New(message)
	}
	return ErrRequestFailed
}
