// Package api is a typed HTTP client for the social API.
package api

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
	"sync"
	"time"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Error is a non-2xx response decoded from the {code, msg} body.
type Error struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"msg"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Picture is an image attached to a multipart request.
type Picture struct {
	Name string
	Data io.Reader
}

// RegisterRequest holds the registration form fields.
type RegisterRequest struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Location   string
	Occupation string
	Friends    []uuid.UUID
	Picture    *Picture
}

// Client calls the API and remembers the session token after Login.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for baseURL. A nil httpClient uses a client with a
// 30 second timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AssetURL returns the address a stored picture is served from.
func (c *Client) AssetURL(picturePath string) string {
	return c.baseURL.JoinPath("assets", picturePath).String()
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	fields := [][2]string{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"password", req.Password},
		{"location", req.Location},
		{"occupation", req.Occupation},
	}
	for _, id := range req.Friends {
		fields = append(fields, [2]string{"friends", id.String()})
	}

	body, contentType, err := multipartBody(fields, req.Picture)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	err = c.do(ctx, http.MethodPost, "/auth/register", contentType, body, &user)
	return user, err
}

// Login opens a session and keeps its token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return model.Session{}, err
	}

	var session model.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", "application/json", body, &session); err != nil {
		return model.Session{}, err
	}
	c.SetToken(session.Token)
	return session, nil
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/users/"+id.String(), "", nil, &user)
	return user, err
}

func (c *Client) GetFriends(ctx context.Context, userID uuid.UUID) ([]model.FriendSummary, error) {
	var friends []model.FriendSummary
	err := c.do(ctx, http.MethodGet, "/users/"+userID.String()+"/friends", "", nil, &friends)
	return friends, err
}

func (c *Client) ToggleFriend(ctx context.Context, userID, friendID uuid.UUID) ([]model.FriendSummary, error) {
	var friends []model.FriendSummary
	err := c.do(ctx, http.MethodPut, "/users/"+userID.String()+"/"+friendID.String(), "", nil, &friends)
	return friends, err
}

func (c *Client) CreatePost(ctx context.Context, userID uuid.UUID, description string, picture *Picture) (model.Post, error) {
	fields := [][2]string{
		{"userId", userID.String()},
		{"description", description},
	}
	body, contentType, err := multipartBody(fields, picture)
	if err != nil {
		return model.Post{}, err
	}

	var post model.Post
	err = c.do(ctx, http.MethodPost, "/posts", contentType, body, &post)
	return post, err
}

func (c *Client) GetFeed(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/posts", "", nil, &posts)
	return posts, err
}

func (c *Client) GetUserPosts(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/posts/"+userID.String()+"/posts", "", nil, &posts)
	return posts, err
}

func (c *Client) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (model.Post, error) {
	body, err := jsonBody(map[string]string{"userId": userID.String()})
	if err != nil {
		return model.Post{}, err
	}

	var post model.Post
	err = c.do(ctx, http.MethodPatch, "/posts/"+postID.String()+"/like", "application/json", body, &post)
	return post, err
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(raw), nil
}

// multipartBody sends picturePath as the picture's file name so the server
// stores the same key it uploads under.
func multipartBody(fields [][2]string, picture *Picture) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form: %w", err)
		}
	}

	if picture != nil {
		if err := w.WriteField("picturePath", picture.Name); err != nil {
			return nil, "", fmt.Errorf("failed to write form: %w", err)
		}
		part, err := w.CreateFormFile("picture", picture.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to write form: %w", err)
		}
		if _, err := io.Copy(part, picture.Data); err != nil {
			return nil, "", fmt.Errorf("failed to read picture: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to write form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
