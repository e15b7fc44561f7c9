package storage

// Config holds configuration for the storage client.
type Config struct {
	// Backend selects the transport: "s3" for a remote endpoint, "memory" for
	// an in-process store.
	Backend string `mapstructure:"backend" default:"s3"`
	// Endpoint is the host (and optional port) of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID. Leave empty to use the environment or
	// the shared credentials file.
	AccessKey string `mapstructure:"access_key" default:"" secret:"true"`
	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" default:"" secret:"true"`
	// SessionToken is the optional temporary session token.
	SessionToken string `mapstructure:"session_token" default:"" secret:"true"`
	// CredentialsFile is the shared credentials file path.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// Profile is the profile read from CredentialsFile.
	Profile string `mapstructure:"profile" default:"default"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region is used for signing and as location constraint of new buckets.
	Region string `mapstructure:"region" default:"us-east-1"`
	// PathStyle forces path-style addressing instead of virtual hosts.
	PathStyle bool `mapstructure:"path_style" default:"true"`
	// Signature is the request signature version, "v4" or "v2".
	Signature string `mapstructure:"signature" default:"v4"`
	// ConnectTimeoutSeconds bounds connection setup.
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" default:"10"`
	// SocketTimeoutSeconds bounds the wait for response headers.
	SocketTimeoutSeconds int `mapstructure:"socket_timeout_seconds" default:"50"`
	// MaxConnections bounds open connections per host.
	MaxConnections int `mapstructure:"max_connections" default:"50"`
}
