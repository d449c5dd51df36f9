package domain

import "context"

// GitHub is the set of remote operations the controllers depend on. Implementations
// hold no session: every authenticated call receives its bearer token explicitly.
type GitHub interface {
	ExchangeCodeForToken(ctx context.Context, clientID, clientSecret, code string) (*AccessTokenResult, error)

	FetchCurrentUser(ctx context.Context, token string) (*User, error)

	FetchCurrentUserRepositories(ctx context.Context, token string, perPage int, sort string) ([]RepositorySummary, error)

	FetchPublicRepositories(ctx context.Context) ([]RepositorySummary, error)

	SearchRepositories(ctx context.Context, query, sort, order string) ([]RepositorySummary, error)

	FetchRepositoryDetail(ctx context.Context, owner, name string) (*RepositorySummary, error)
}
