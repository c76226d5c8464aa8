// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config holds the settings for an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string // key prefix, e.g. "uploads/"
	PublicURL string // optional CDN/direct URL for the bucket
}

// S3 stores files in one bucket under a key prefix. Objects are written
// with a public-read ACL so the returned URLs can be fetched directly.
type S3 struct {
	s3      *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

// NewS3 creates an S3 backend configured for path-style addressing, as
// required by CEPH/Hetzner/MinIO.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 storage: endpoint, credentials and bucket are required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		baseURL = endpoint + "/" + cfg.Bucket
	}

	return &S3{
		s3:      client,
		bucket:  cfg.Bucket,
		prefix:  normalizePrefix(cfg.Prefix),
		baseURL: baseURL,
	}, nil
}

// normalizePrefix strips leading slashes and ensures a trailing one.
func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func (c *S3) key(name string) string {
	return c.prefix + name
}

// Save uploads r with If-None-Match so an existing key is never replaced.
func (c *S3) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (int64, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.key(name)),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
		IfNoneMatch:   aws.String("*"),
	}

	_, err := c.s3.PutObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("s3 upload %s/%s: %w", c.bucket, c.key(name), err)
	}
	return size, nil
}

// Delete removes an object from the bucket.
func (c *S3) Delete(ctx context.Context, name string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, c.key(name), err)
	}
	return nil
}

// List returns every object under the prefix. Nested keys are skipped.
func (c *S3) List(ctx context.Context) ([]Object, error) {
	var objs []Object
	p := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(c.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s/%s: %w", c.bucket, c.prefix, err)
		}
		for _, o := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(o.Key), c.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			objs = append(objs, Object{
				Name:    name,
				Size:    aws.ToInt64(o.Size),
				ModTime: aws.ToTime(o.LastModified),
			})
		}
	}
	return objs, nil
}

// URL returns the public URL of the named object. Uses the configured
// public URL if set, otherwise builds a path-style URL.
func (c *S3) URL(name string) string {
	return c.baseURL + "/" + c.key(name)
}

// NameFromURL extracts the object name from a public URL.
func (c *S3) NameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, c.baseURL+"/"+c.prefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
