package domain

type AuthStatus string

const (
	AuthStatusLoggedOut      AuthStatus = "logged_out"
	AuthStatusAuthenticating AuthStatus = "authenticating"
	AuthStatusLoggedIn       AuthStatus = "logged_in"
)

type SortKey string

const (
	SortByStars   SortKey = "stars"
	SortByUpdated SortKey = "updated"
)

// Valid reports whether the key is one the search endpoint accepts from the browse screen.
func (s SortKey) Valid() bool {
	return s == SortByStars || s == SortByUpdated
}

type User struct {
	Login       string
	ID          int64
	AvatarURL   string
	DisplayName *string
}

// Name returns the display name, or "" when the account has none set.
func (u User) Name() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

type RepositorySummary struct {
	ID          int64
	Name        string
	OwnerLogin  string
	Description *string
	StarCount   int
	HTMLURL     string
}

func (r RepositorySummary) FullName() string {
	return r.OwnerLogin + "/" + r.Name
}

type AccessTokenResult struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// Session mirrors the persisted credential fields. Empty strings mean absent.
type Session struct {
	AccessToken     string `json:"access_token,omitempty"`
	UserLogin       string `json:"user_login,omitempty"`
	UserDisplayName string `json:"user_name,omitempty"`
	TokenScope      string `json:"token_scope,omitempty"`
}

func (s Session) IsEmpty() bool {
	return s == Session{}
}
