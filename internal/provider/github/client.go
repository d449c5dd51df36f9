package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultWebBaseURL = "https://github.com/"
)

type Options struct {
	APIBaseURL string
	WebBaseURL string
	HTTPClient *http.Client
	Debug      bool
}

// Client issues raw go-github and OAuth calls. It keeps no credential: every
// authenticated call builds its own token source from the token it is given.
type Client struct {
	httpClient *http.Client
	apiBaseURL *url.URL
	endpoint   oauth2.Endpoint
}

func NewClient(opts Options) (*Client, error) {
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(apiBase, "/") {
		apiBase += "/"
	}
	parsed, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", opts.APIBaseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.Debug {
		wrapped := *httpClient
		wrapped.Transport = common.NewLoggingTransport(httpClient.Transport)
		httpClient = &wrapped
	}

	return &Client{
		httpClient: httpClient,
		apiBaseURL: parsed,
		endpoint:   OAuthEndpoint(opts.WebBaseURL),
	}, nil
}

// OAuthEndpoint returns GitHub's authorize and token URLs under webBaseURL.
// Client credentials travel as form fields, which is what GitHub documents.
func OAuthEndpoint(webBaseURL string) oauth2.Endpoint {
	endpoint := githuboauth.Endpoint
	if webBaseURL != "" && strings.TrimSuffix(webBaseURL, "/") != strings.TrimSuffix(DefaultWebBaseURL, "/") {
		base := strings.TrimSuffix(webBaseURL, "/")
		endpoint.AuthURL = base + "/login/oauth/authorize"
		endpoint.TokenURL = base + "/login/oauth/access_token"
		endpoint.DeviceAuthURL = base + "/login/device/code"
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return endpoint
}

func (c *Client) api(ctx context.Context, token string) *github.Client {
	hc := c.httpClient
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), ts)
	}

	client := github.NewClient(hc)
	base := *c.apiBaseURL
	client.BaseURL = &base
	return client
}

func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (*oauth2.Token, error) {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     c.endpoint,
	}

	exchangeClient := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &common.HeaderTransport{
			Transport: c.httpClient.Transport,
			Header:    http.Header{"Accept": []string{"application/json"}},
		},
	}

	token, err := cfg.Exchange(context.WithValue(ctx, oauth2.HTTPClient, exchangeClient), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

func (c *Client) GetAuthenticatedUser(ctx context.Context, token string) (*github.User, error) {
	user, _, err := c.api(ctx, token).Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (c *Client) ListAuthenticatedUserRepos(ctx context.Context, token string, perPage int, sort string) ([]*github.Repository, error) {
	opts := &github.RepositoryListOptions{
		Sort:        sort,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	repos, _, err := c.api(ctx, token).Repositories.List(ctx, "", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list user repositories: %w", err)
	}
	return repos, nil
}

func (c *Client) ListPublicRepos(ctx context.Context) ([]*github.Repository, error) {
	repos, _, err := c.api(ctx, "").Repositories.ListAll(ctx, &github.RepositoryListAllOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list public repositories: %w", err)
	}
	return repos, nil
}

func (c *Client) SearchRepos(ctx context.Context, query, sort, order string) ([]*github.Repository, error) {
	opts := &github.SearchOptions{
		Sort:  sort,
		Order: order,
	}

	result, _, err := c.api(ctx, "").Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	return result.Repositories, nil
}

func (c *Client) GetRepo(ctx context.Context, owner, name string) (*github.Repository, error) {
	repo, _, err := c.api(ctx, "").Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}
