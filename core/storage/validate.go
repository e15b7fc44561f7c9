package storage

import (
	"regexp"
	"strings"

	"github.com/minio/minio-go/v7/pkg/s3utils"
)

var (
	bucketNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9.-]{0,61}[a-z0-9])?$`)
	ipAddressPattern  = regexp.MustCompile(`^(\d+\.){3}\d+$`)
)

// ValidateBucketName checks the bucket naming rules enforced before any
// request is sent: 1 to 63 characters of lowercase letters, digits, dots and
// hyphens, alphanumeric at both ends, no adjacent dot/hyphen pairs, and not
// shaped like an IPv4 address. Backends with stricter rules reject the rest
// with InvalidBucketName.
func ValidateBucketName(name string) error {
	msg := bucketNameProblem(name)
	if msg == "" {
		return nil
	}
	return invalidName("", name, "", msg)
}

func bucketNameProblem(name string) string {
	switch {
	case name == "":
		return "bucket name cannot be empty"
	case len(name) > 63:
		return "bucket name cannot be longer than 63 characters"
	case ipAddressPattern.MatchString(name):
		return "bucket name cannot be an ip address"
	case strings.Contains(name, ".."), strings.Contains(name, ".-"), strings.Contains(name, "-."):
		return "bucket name contains invalid characters"
	case !bucketNamePattern.MatchString(name):
		return "bucket name contains invalid characters"
	}
	return ""
}

// ValidateObjectKey checks that key is a non-empty, valid UTF-8 object key.
func ValidateObjectKey(key string) error {
	if err := s3utils.CheckValidObjectName(key); err != nil {
		return invalidName("", "", key, err.Error())
	}
	return nil
}

func (c *client) checkBucket(op, bucket string) error {
	if msg := bucketNameProblem(bucket); msg != "" {
		return invalidName(op, bucket, "", msg)
	}
	return nil
}

func (c *client) checkObject(op, bucket, key string) error {
	if err := c.checkBucket(op, bucket); err != nil {
		return err
	}
	if err := s3utils.CheckValidObjectName(key); err != nil {
		return invalidName(op, bucket, key, err.Error())
	}
	return nil
}
