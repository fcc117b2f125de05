package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultCommentsURL = "https://jsonplaceholder.typicode.com/comments"
	DefaultPostsURL    = "https://jsonplaceholder.typicode.com/posts"

	defaultTimeout = 10 * time.Second
	userAgent      = "commentdesk/1.0"
)

// Fetcher loads the joined baseline. Implemented by *Client.
type Fetcher interface {
	FetchAll(ctx context.Context) (*Baseline, error)
}

var _ Fetcher = (*Client)(nil)

// Client fetches the comments and posts collections.
type Client struct {
	http        *http.Client
	commentsURL string
	postsURL    string
}

// NewClient creates a client for the given collection endpoints. Empty URLs
// fall back to the public defaults; a zero timeout uses 10s.
func NewClient(commentsURL, postsURL string, timeout time.Duration) *Client {
	if commentsURL == "" {
		commentsURL = DefaultCommentsURL
	}
	if postsURL == "" {
		postsURL = DefaultPostsURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		commentsURL: commentsURL,
		postsURL:    postsURL,
	}
}

// get fetches a URL and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// GetComments fetches the full comments collection.
func (c *Client) GetComments(ctx context.Context) ([]Comment, error) {
	var comments []Comment
	if err := c.get(ctx, c.commentsURL, &comments); err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	return comments, nil
}

// GetPosts fetches the full posts collection.
func (c *Client) GetPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.get(ctx, c.postsURL, &posts); err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	return posts, nil
}

// FetchAll fetches both collections concurrently and joins them. Either
// failure fails the whole fetch and cancels the other request.
func (c *Client) FetchAll(ctx context.Context) (*Baseline, error) {
	var (
		comments []Comment
		posts    []Post
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = c.GetComments(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = c.GetPosts(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewBaseline(comments, posts), nil
}
