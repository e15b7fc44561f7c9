package storage

import (
	"fmt"
	"strings"
	"time"

	"storage-sample/core/transport"
	"storage-sample/core/transport/memory"
	"storage-sample/core/transport/s3http"

	"go.uber.org/zap"
)

// Backends accepted by Config.Backend.
const (
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// NewTransport builds the transport selected by cfg.
func NewTransport(cfg Config) (transport.Transport, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return memory.New(), nil
	case BackendS3, "":
		connect := cfg.ConnectTimeoutSeconds
		if connect <= 0 {
			connect = 10
		}
		socket := cfg.SocketTimeoutSeconds
		if socket <= 0 {
			socket = 50
		}
		t, err := s3http.New(s3http.Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			UseSSL:          cfg.UseSSL,
			PathStyle:       cfg.PathStyle,
			Signature:       cfg.Signature,
			AccessKey:       cfg.AccessKey,
			SecretKey:       cfg.SecretKey,
			SessionToken:    cfg.SessionToken,
			CredentialsFile: cfg.CredentialsFile,
			Profile:         cfg.Profile,
			ConnectTimeout:  time.Duration(connect) * time.Second,
			SocketTimeout:   time.Duration(socket) * time.Second,
			MaxConnections:  cfg.MaxConnections,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 transport: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// New creates a client for the backend described by cfg.
func New(cfg Config, logger *zap.Logger, opts ...Option) (Client, error) {
	t, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithRegion(cfg.Region)}, opts...)
	return NewClient(t, logger, opts...), nil
}
