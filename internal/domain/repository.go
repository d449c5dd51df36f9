package domain

// SecureStore persists the session credential and cached identity across restarts.
// Every setter is durable once it returns. ClearAll removes all fields in a single write.
type SecureStore interface {
	AccessToken() (string, bool)

	SetAccessToken(token string) error

	UserLogin() (string, bool)

	SetUserLogin(login string) error

	UserName() (string, bool)

	SetUserName(name string) error

	TokenScope() (string, bool)

	SetTokenScope(scope string) error

	ClearAll() error
}
