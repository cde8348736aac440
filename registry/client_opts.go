package registry

import "log/slog"

// Option configures a Client.
type Option func(*Client)

// WithPlainHTTP uses HTTP instead of HTTPS, for local registries.
func WithPlainHTTP(plain bool) Option {
	return func(c *Client) {
		c.plainHTTP = plain
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithBasicAuth presents username/password basic credentials to the
// registry. Either field may be empty.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.basic = true
		c.username = username
		c.password = password
	}
}

// WithLogger sets the logger for registry operations. Without one,
// logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
