package github

// Config holds the connector configuration resolved once per process.
type Config struct {
	// Token is the optional bearer credential. Absence is a legal
	// configuration, not an error: the walker strategy and the
	// anonymous quota are used instead.
	Token string

	// ForceWalk forces the walker strategy even when a token is
	// present.
	ForceWalk bool
}

// HasToken reports whether a credential is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}
