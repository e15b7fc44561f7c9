package sample

// Config holds configuration for the walkthrough.
type Config struct {
	// BucketPrefix starts the generated bucket name; a UUID is appended.
	BucketPrefix string `mapstructure:"bucket_prefix" default:"my-first-bucket"`
	// Key is the object key the sample file is stored under.
	Key string `mapstructure:"key" default:"MyObjectKey"`
	// ListPrefix filters the object listing step.
	ListPrefix string `mapstructure:"list_prefix" default:"My"`
	// Keep skips deleting the object and bucket at the end.
	Keep bool `mapstructure:"keep" default:"false"`
}
