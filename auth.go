package boxpull

// AuthKind identifies a credential mode for the registry.
type AuthKind int

const (
	// AuthAnonymous performs unauthenticated requests.
	AuthAnonymous AuthKind = iota

	// AuthBasic presents username/password basic credentials.
	AuthBasic
)

// Auth holds the credential mode selected for a pull.
//
// The zero value is anonymous. Auth values are immutable; build one with
// SelectAuth.
type Auth struct {
	Kind     AuthKind
	Username string
	Password string
}

// SelectAuth derives the credential mode from optional username and password
// strings, where the empty string means "not provided".
//
// Both empty selects anonymous access. Any other combination selects basic
// auth, with the empty string standing in for the missing half of the pair;
// registries may accept empty-field basic credentials, so a lone username or
// password is not an error here.
func SelectAuth(username, password string) Auth {
	if username == "" && password == "" {
		return Auth{}
	}
	return Auth{Kind: AuthBasic, Username: username, Password: password}
}

// IsAnonymous reports whether no credentials were provided.
func (a Auth) IsAnonymous() bool {
	return a.Kind == AuthAnonymous
}

// String renders the credential mode with the password redacted.
func (a Auth) String() string {
	if a.IsAnonymous() {
		return "anonymous"
	}
	return a.Username + ":****"
}
