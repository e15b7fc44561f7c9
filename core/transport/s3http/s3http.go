// Package s3http sends storage requests to an S3-compatible endpoint over
// HTTP. Requests are signed with AWS signature v4 (or v2) using credentials
// resolved from static keys, the environment or a shared credentials file.
package s3http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storage-sample/core/transport"

	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/s3utils"
	"github.com/minio/minio-go/v7/pkg/signer"
)

const (
	defaultRegion   = "us-east-1"
	unsignedPayload = "UNSIGNED-PAYLOAD"
)

// Config describes the endpoint and connection limits.
type Config struct {
	// Endpoint is host[:port], optionally prefixed with a scheme.
	Endpoint  string
	Region    string
	UseSSL    bool
	PathStyle bool
	// Signature is "v4" (default) or "v2".
	Signature string

	AccessKey       string
	SecretKey       string
	SessionToken    string
	CredentialsFile string
	Profile         string

	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
	MaxConnections int
}

// Transport is an HTTP transport.Transport.
type Transport struct {
	endpoint  url.URL
	region    string
	pathStyle bool
	v2        bool
	creds     *credentials.Credentials
	client    *http.Client
}

// New validates cfg and prepares the HTTP client. No connection is made.
func New(cfg Config) (*Transport, error) {
	secure := cfg.UseSSL
	host := cfg.Endpoint
	if rest, ok := strings.CutPrefix(host, "https://"); ok {
		host, secure = rest, true
	} else if rest, ok := strings.CutPrefix(host, "http://"); ok {
		host = rest
	}
	host = strings.TrimSuffix(host, "/")
	if host == "" || strings.Contains(host, "/") {
		return nil, fmt.Errorf("invalid endpoint %q", cfg.Endpoint)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	var v2 bool
	switch strings.ToLower(cfg.Signature) {
	case "", "v4":
	case "v2":
		v2 = true
	default:
		return nil, fmt.Errorf("unsupported signature version %q", cfg.Signature)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	socketTimeout := cfg.SocketTimeout
	if socketTimeout <= 0 {
		socketTimeout = 50 * time.Second
	}

	httpTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxConnsPerHost:       cfg.MaxConnections,
		MaxIdleConnsPerHost:   cfg.MaxConnections,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: socketTimeout,
	}

	return &Transport{
		endpoint:  url.URL{Scheme: scheme, Host: host},
		region:    region,
		pathStyle: cfg.PathStyle,
		v2:        v2,
		creds:     newCredentials(cfg),
		client:    &http.Client{Transport: httpTransport},
	}, nil
}

// newCredentials resolves keys in order: configured keys, AWS environment,
// MinIO environment, shared credentials file. With none found, requests are
// sent anonymously.
func newCredentials(cfg Config) *credentials.Credentials {
	signerType := credentials.SignatureV4
	if strings.EqualFold(cfg.Signature, "v2") {
		signerType = credentials.SignatureV2
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.Static{Value: credentials.Value{
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			SessionToken:    cfg.SessionToken,
			SignerType:      signerType,
		}},
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{Filename: cfg.CredentialsFile, Profile: cfg.Profile},
	})
}

// URL returns the address a request is sent to.
func (t *Transport) URL(req *transport.Request) string {
	host := t.endpoint.Host
	path := "/"
	if req.Bucket != "" {
		if t.virtualHost(req.Bucket) {
			host = req.Bucket + "." + host
			path += req.Key
		} else {
			path += req.Bucket
			if req.Key != "" {
				path += "/" + req.Key
			}
		}
	}

	u := t.endpoint.Scheme + "://" + host + s3utils.EncodePath(path)
	if q := s3utils.QueryEncode(req.Query); q != "" {
		u += "?" + q
	}
	return u
}

func (t *Transport) virtualHost(bucket string) bool {
	return !t.pathStyle && s3utils.IsVirtualHostSupported(t.endpoint, bucket)
}

// Do signs and sends req.
func (t *Transport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	hreq, err := http.NewRequestWithContext(ctx, req.Method, t.URL(req), req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for name, values := range req.Header {
		hreq.Header[http.CanonicalHeaderKey(name)] = values
	}
	hreq.Header.Del("Content-Length")
	hreq.ContentLength = req.ContentLength
	if req.ContentLength == 0 {
		hreq.Body = http.NoBody
		hreq.GetBody = nil
	}
	if hreq.Header.Get(transport.HeaderContentSHA256) == "" {
		hreq.Header.Set(transport.HeaderContentSHA256, unsignedPayload)
	}

	value, err := t.creds.GetWithContext(&credentials.CredContext{Client: t.client, Endpoint: t.endpoint.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials: %w", err)
	}
	switch {
	case value.SignerType.IsAnonymous():
	case t.v2:
		hreq = signer.SignV2(*hreq, value.AccessKeyID, value.SecretAccessKey, t.virtualHost(req.Bucket))
	default:
		hreq = signer.SignV4(*hreq, value.AccessKeyID, value.SecretAccessKey, value.SessionToken, t.region)
	}

	resp, err := t.client.Do(hreq)
	if err != nil {
		return nil, err
	}

	return &transport.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}
