// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"path"
	"strings"

	"voiceaikb/internal/storage"
)

// ObjectStore downloads and lists objects in a bucket.
type ObjectStore interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// S3Source reads articles from an S3-compatible bucket, using the same
// candidate names as FSSource below an optional key prefix.
type S3Source struct {
	client ObjectStore
	bucket string
	prefix string
}

// NewS3Source returns a source reading objects from bucket under prefix.
func NewS3Source(client ObjectStore, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Read returns the first candidate object that exists.
func (s *S3Source) Read(ctx context.Context, slugPath []string) ([]byte, error) {
	for _, name := range Candidates(slugPath) {
		key := name
		if s.prefix != "" {
			key = path.Join(s.prefix, name)
		}
		data, err := s.client.Download(ctx, s.bucket, key)
		if err == nil {
			return data, nil
		}
		if !storage.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// Articles lists the article objects below the prefix, with the prefix
// removed from their names.
func (s *S3Source) Articles(ctx context.Context) ([]string, error) {
	prefix := ""
	if s.prefix != "" {
		prefix = strings.TrimSuffix(s.prefix, "/") + "/"
	}
	keys, err := s.client.List(ctx, s.bucket, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, prefix)
		if IsArticle(name) {
			names = append(names, name)
		}
	}
	return names, nil
}
