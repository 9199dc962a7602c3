// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package minio implements blob.Store on an S3 compatible bucket through the
// MinIO client.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	minioclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stacklok/skillboard/blob"
)

// Options configures a Store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Store is a bucket-backed blob.Store.
type Store struct {
	client *minioclient.Client
	bucket string
	region string
}

var _ blob.Store = (*Store)(nil)

// New builds a client for opts.Endpoint. It performs no network calls.
func New(opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("minio: bucket is required")
	}
	client, err := minioclient.New(opts.Endpoint, &minioclient.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", opts.Endpoint, err)
	}
	return &Store{client: client, bucket: opts.Bucket, region: opts.Region}, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minioclient.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put implements blob.Store.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := blob.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minioclient.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("putting %s: %w", key, err)
	}
	return nil
}

// Copy implements blob.Store with a server-side copy.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	if err := blob.ValidateKey(dstKey); err != nil {
		return err
	}
	_, err := s.client.CopyObject(ctx,
		minioclient.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minioclient.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("copying %s to %s: %w", srcKey, dstKey, mapError(err))
	}
	return nil
}

// Remove implements blob.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minioclient.RemoveObjectOptions{}); err != nil {
		if errors.Is(mapError(err), blob.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Get implements blob.Store.
func (s *Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minioclient.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, mapError(err))
	}
	defer func() { _ = obj.Close() }()

	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, mapError(err))
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, mapError(err))
	}
	return &blob.Object{Data: data, ContentType: info.ContentType}, nil
}

// mapError translates missing-object responses into blob.ErrNotFound.
func mapError(err error) error {
	var resp minioclient.ErrorResponse
	if !errors.As(err, &resp) {
		return err
	}
	if resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket") {
		return fmt.Errorf("%s: %w", resp.Error(), blob.ErrNotFound)
	}
	return err
}
