package transport

import (
	"encoding/xml"
	"time"
)

// Namespace is the S3 document namespace.
const Namespace = "http://s3.amazonaws.com/doc/2006-03-01/"

// Owner identifies the account owning buckets.
type Owner struct {
	ID          string
	DisplayName string
}

// BucketEntry is one bucket in a ListAllMyBucketsResult.
type BucketEntry struct {
	Name         string
	CreationDate time.Time
}

// ListAllMyBucketsResult is the body of GET /.
type ListAllMyBucketsResult struct {
	XMLName xml.Name      `xml:"ListAllMyBucketsResult"`
	Xmlns   string        `xml:"xmlns,attr,omitempty"`
	Owner   Owner         `xml:"Owner"`
	Buckets []BucketEntry `xml:"Buckets>Bucket"`
}

// ObjectEntry is one object in a ListBucketResult.
type ObjectEntry struct {
	Key          string
	LastModified time.Time
	ETag         string
	Size         int64
	StorageClass string `xml:",omitempty"`
}

// ListBucketResult is the body of GET /{bucket} (list objects, version 1).
type ListBucketResult struct {
	XMLName     xml.Name      `xml:"ListBucketResult"`
	Xmlns       string        `xml:"xmlns,attr,omitempty"`
	Name        string        `xml:"Name"`
	Prefix      string        `xml:"Prefix"`
	Marker      string        `xml:"Marker"`
	NextMarker  string        `xml:"NextMarker,omitempty"`
	MaxKeys     int           `xml:"MaxKeys"`
	IsTruncated bool          `xml:"IsTruncated"`
	Contents    []ObjectEntry `xml:"Contents"`
}

// CreateBucketConfiguration is the optional body of PUT /{bucket}.
type CreateBucketConfiguration struct {
	XMLName            xml.Name `xml:"CreateBucketConfiguration"`
	Xmlns              string   `xml:"xmlns,attr,omitempty"`
	LocationConstraint string   `xml:"LocationConstraint"`
}
