package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/repobrowser/internal/domain"
	"github.com/johanforsgren/repobrowser/internal/logger"
	"github.com/johanforsgren/repobrowser/internal/provider/common"
	"golang.org/x/oauth2"
)

const (
	MaxPerPage        = 100
	DefaultUserSort   = "updated"
	DefaultSearchSort = "stars"
	DefaultOrder      = "desc"
)

// Provider implements domain.GitHub on top of Client, converting go-github
// types to domain types and every failure to *common.NetworkError.
type Provider struct {
	client *Client
}

func NewProvider(opts Options) (*Provider, error) {
	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

var _ domain.GitHub = (*Provider)(nil)

func (p *Provider) ExchangeCodeForToken(ctx context.Context, clientID, clientSecret, code string) (*domain.AccessTokenResult, error) {
	logger.Log("GitHub: Exchanging authorization code for client %s", clientID)
	token, err := p.client.ExchangeCode(ctx, clientID, clientSecret, code)
	if err != nil {
		logger.LogError("GITHUB_EXCHANGE_CODE", clientID, err)
		return nil, toNetworkError(err)
	}

	result := &domain.AccessTokenResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		result.Scope = scope
	}

	logger.Log("GitHub: Received %s token %s (scope: %q)", result.TokenType, logger.Redact(result.AccessToken), result.Scope)
	return result, nil
}

func (p *Provider) FetchCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	logger.Log("GitHub: Fetching authenticated user")
	ghUser, err := p.client.GetAuthenticatedUser(ctx, token)
	if err != nil {
		logger.LogError("GITHUB_GET_USER", logger.Redact(token), err)
		return nil, toNetworkError(err)
	}

	user := convertUser(ghUser)
	logger.Log("GitHub: Authenticated as %s", user.Login)
	return &user, nil
}

func (p *Provider) FetchCurrentUserRepositories(ctx context.Context, token string, perPage int, sort string) ([]domain.RepositorySummary, error) {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if sort == "" {
		sort = DefaultUserSort
	}

	logger.Log("GitHub: Listing repositories of authenticated user (per_page=%d, sort=%s)", perPage, sort)
	ghRepos, err := p.client.ListAuthenticatedUserRepos(ctx, token, perPage, sort)
	if err != nil {
		logger.LogError("GITHUB_LIST_USER_REPOS", logger.Redact(token), err)
		return nil, toNetworkError(err)
	}

	repos := convertRepositories(ghRepos)
	logger.Log("GitHub: Found %d user repositories", len(repos))
	return repos, nil
}

func (p *Provider) FetchPublicRepositories(ctx context.Context) ([]domain.RepositorySummary, error) {
	logger.Log("GitHub: Listing public repositories")
	ghRepos, err := p.client.ListPublicRepos(ctx)
	if err != nil {
		logger.LogError("GITHUB_LIST_PUBLIC_REPOS", "", err)
		return nil, toNetworkError(err)
	}

	repos := convertRepositories(ghRepos)
	logger.Log("GitHub: Found %d public repositories", len(repos))
	return repos, nil
}

func (p *Provider) SearchRepositories(ctx context.Context, query, sort, order string) ([]domain.RepositorySummary, error) {
	if sort == "" {
		sort = DefaultSearchSort
	}
	if order == "" {
		order = DefaultOrder
	}

	logger.Log("GitHub: Searching repositories q=%q sort=%s order=%s", query, sort, order)
	ghRepos, err := p.client.SearchRepos(ctx, query, sort, order)
	if err != nil {
		logger.LogError("GITHUB_SEARCH_REPOS", query, err)
		return nil, toNetworkError(err)
	}

	repos := convertRepositories(ghRepos)
	logger.Log("GitHub: Search %q returned %d repositories", query, len(repos))
	return repos, nil
}

func (p *Provider) FetchRepositoryDetail(ctx context.Context, owner, name string) (*domain.RepositorySummary, error) {
	logger.Log("GitHub: Getting repository %s/%s", owner, name)
	ghRepo, err := p.client.GetRepo(ctx, owner, name)
	if err != nil {
		logger.LogError("GITHUB_GET_REPO", fmt.Sprintf("%s/%s", owner, name), err)
		return nil, toNetworkError(err)
	}

	repo := convertRepository(ghRepo)
	logger.Log("GitHub: Retrieved %s", repo.FullName())
	return &repo, nil
}

func convertUser(ghUser *github.User) domain.User {
	return domain.User{
		Login:       ghUser.GetLogin(),
		ID:          ghUser.GetID(),
		AvatarURL:   ghUser.GetAvatarURL(),
		DisplayName: common.OptionalString(ghUser.Name),
	}
}

func convertRepository(ghRepo *github.Repository) domain.RepositorySummary {
	return domain.RepositorySummary{
		ID:          ghRepo.GetID(),
		Name:        ghRepo.GetName(),
		OwnerLogin:  ghRepo.GetOwner().GetLogin(),
		Description: common.OptionalString(ghRepo.Description),
		StarCount:   ghRepo.GetStargazersCount(),
		HTMLURL:     ghRepo.GetHTMLURL(),
	}
}

func convertRepositories(ghRepos []*github.Repository) []domain.RepositorySummary {
	repos := make([]domain.RepositorySummary, 0, len(ghRepos))
	for _, ghRepo := range ghRepos {
		if ghRepo == nil {
			continue
		}
		repos = append(repos, convertRepository(ghRepo))
	}
	return repos
}

func toNetworkError(err error) error {
	var netErr *common.NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		// GitHub answers a rejected code with 200 and an error body; report it
		// as the 400 that RFC 6749 prescribes.
		if status >= 200 && status < 300 {
			status = http.StatusBadRequest
		}
		message := retrieveErr.ErrorDescription
		if message == "" {
			message = retrieveErr.ErrorCode
		}
		if message == "" {
			message = string(retrieveErr.Body)
		}
		return &common.NetworkError{Status: status, Message: message}
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &common.NetworkError{Status: responseStatus(rateErr.Response, http.StatusForbidden), Message: rateErr.Message}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &common.NetworkError{Status: responseStatus(abuseErr.Response, http.StatusForbidden), Message: abuseErr.Message}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		message := ghErr.Message
		if message == "" {
			message = common.ExtractErrorMessage(err)
		}
		return &common.NetworkError{Status: responseStatus(ghErr.Response, 0), Message: message}
	}

	message := err.Error()
	if inner := errors.Unwrap(err); inner != nil {
		message = inner.Error()
	}
	return &common.NetworkError{Message: message}
}

func responseStatus(resp *http.Response, fallback int) int {
	if resp == nil {
		return fallback
	}
	return resp.StatusCode
}
