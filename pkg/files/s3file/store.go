// Package s3file exposes an S3 bucket, or a prefix inside one, as a drive.
package s3file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

// API is the subset of the S3 client the store calls.
type API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ drives.Backend = (*Store)(nil)
var _ drives.FileCopier = (*Store)(nil)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

type Store struct {
	client API
	bucket string
	prefix string
	label  string
}

// New connects to the bucket described by cfg. An empty endpoint uses the
// default AWS resolution.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client API, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix, label: strings.ToUpper(bucket)}
}

func (s *Store) Label() string { return s.label }

func (s *Store) Class() files.DriveClass { return files.DriveRemote }

func (s *Store) key(p string) string {
	return s.prefix + strings.TrimPrefix(path.Clean("/"+p), "/")
}

func (s *Store) dirPrefix(p string) string {
	k := s.key(p)
	if k == "" || strings.HasSuffix(k, "/") {
		return k
	}
	return k + "/"
}

func record(op string, start time.Time, err error) {
	metrics.RecordBackendOperation("s3", op, time.Since(start), err == nil)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func (s *Store) Stat(ctx context.Context, p string) (drives.Info, error) {
	name := path.Base(path.Clean("/" + p))
	if path.Clean("/"+p) == "/" {
		return drives.Info{Name: s.label, IsDir: true}, nil
	}
	start := time.Now()
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	record("head_object", start, err)
	if err == nil {
		return drives.Info{Name: name, Size: aws.ToInt64(head.ContentLength)}, nil
	}
	if !isNotFound(err) {
		return drives.Info{}, fmt.Errorf("stat %s: %w", p, err)
	}
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.dirPrefix(p)),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return drives.Info{}, fmt.Errorf("stat %s: %w", p, err)
	}
	if len(out.Contents) == 0 {
		return drives.Info{}, fmt.Errorf("stat %s: %w", p, files.ErrNotFound)
	}
	return drives.Info{Name: name, IsDir: true}, nil
}

func (s *Store) ReadDir(ctx context.Context, p string) ([]drives.Info, error) {
	prefix := s.dirPrefix(p)
	var infos []drives.Info
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		start := time.Now()
		page, err := paginator.NextPage(ctx)
		record("list_objects", start, err)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", p, err)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			infos = append(infos, drives.Info{Name: name, IsDir: true})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				continue // directory marker
			}
			infos = append(infos, drives.Info{Name: strings.TrimPrefix(key, prefix), Size: aws.ToInt64(obj.Size)})
		}
	}
	return infos, nil
}

func (s *Store) ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error) {
	info, err := s.Stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if off >= info.Size || n <= 0 {
		return nil, nil
	}
	end := min(off+int64(n), info.Size) - 1
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	record("get_object", start, err)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", p, err)
	}
	defer func() {
		_ = out.Body.Close()
	}()
	return io.ReadAll(out.Body)
}

// WriteAt rewrites the whole object since S3 objects are immutable.
func (s *Store) WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error {
	var current []byte
	if !truncate {
		info, err := s.Stat(ctx, p)
		if err != nil {
			return err
		}
		if current, err = s.ReadAt(ctx, p, 0, int(info.Size)); err != nil {
			return err
		}
	}
	buf := make([]byte, max(off+int64(len(data)), int64(len(current))))
	copy(buf, current)
	copy(buf[off:], data)
	return s.put(ctx, s.key(p), buf)
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	record("put_object", start, err)
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	record("get_object", start, err)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("open %s: %w", p, files.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return out.Body, nil
}

type writer struct {
	bytes.Buffer
	ctx   context.Context
	store *Store
	key   string
}

func (w *writer) Close() error {
	return w.store.put(w.ctx, w.key, w.Bytes())
}

// Create buffers the content and uploads it on Close.
func (s *Store) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	return &writer{ctx: ctx, store: s, key: s.key(p)}, nil
}

func (s *Store) Mkdir(ctx context.Context, p string) error {
	return s.put(ctx, s.dirPrefix(p), nil)
}

func (s *Store) keysUnder(ctx context.Context, p string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.dirPrefix(p)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", p, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	record("delete_object", start, err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, p string) error {
	info, err := s.Stat(ctx, p)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return s.delete(ctx, s.key(p))
	}
	keys, err := s.keysUnder(ctx, p)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err = s.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) copyObject(ctx context.Context, srcKey, dstKey string) error {
	start := time.Now()
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(s.bucket + "/" + srcKey),
	})
	record("copy_object", start, err)
	if err != nil {
		return fmt.Errorf("copy %s -> %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// CopyFile copies server side.
func (s *Store) CopyFile(ctx context.Context, from, to string) error {
	return s.copyObject(ctx, s.key(from), s.key(to))
}

// Rename copies every object under from to the new key and deletes the originals.
func (s *Store) Rename(ctx context.Context, from, to string) error {
	info, err := s.Stat(ctx, from)
	if err != nil {
		return err
	}
	if !info.IsDir {
		if err = s.copyObject(ctx, s.key(from), s.key(to)); err != nil {
			return err
		}
		return s.delete(ctx, s.key(from))
	}
	keys, err := s.keysUnder(ctx, from)
	if err != nil {
		return err
	}
	srcPrefix, dstPrefix := s.dirPrefix(from), s.dirPrefix(to)
	for _, key := range keys {
		if err = s.copyObject(ctx, key, dstPrefix+strings.TrimPrefix(key, srcPrefix)); err != nil {
			return err
		}
		if err = s.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
