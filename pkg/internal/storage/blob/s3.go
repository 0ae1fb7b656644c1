package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker"

	"github.com/yeisme/docvault/pkg/configs"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// S3Store 基于 MinIO 的存储实现.
// 活动区与归档区是两个 bucket，存储路径即对象键，归档即跨 bucket 复制后删除源对象.
type S3Store struct {
	client        *minio.Client
	bucket        string
	archiveBucket string
	breaker       *gobreaker.CircuitBreaker
}

// NewS3Store 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func NewS3Store(ctx context.Context, cfg *configs.StorageConfig) (Store, error) {
	s3cfg := cfg.S3

	endpoint := s3cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			s3cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: s3cfg.UseSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("docvault", configs.AppVersion)

	for _, bkt := range []string{s3cfg.BucketName, s3cfg.ArchiveBucket} {
		if bkt == "" {
			continue
		}

		exists, err := cli.BucketExists(ctx, bkt)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bkt, err)
		}

		if !exists {
			if err := cli.MakeBucket(ctx, bkt, minio.MakeBucketOptions{Region: s3cfg.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bkt, err)
			}

			nlog.Logger().Info().Str("bucket", bkt).Msg("bucket created")
		}
	}

	store := &S3Store{
		client:        cli,
		bucket:        s3cfg.BucketName,
		archiveBucket: s3cfg.ArchiveBucket,
	}

	if s3cfg.Breaker.Enabled {
		store.breaker = newBreaker(&s3cfg.Breaker)
	}

	nlog.Logger().Info().
		Str("endpoint", s3cfg.Endpoint).
		Str("bucket", s3cfg.BucketName).
		Str("archive_bucket", s3cfg.ArchiveBucket).
		Msg("s3 blob store connected")

	return store, nil
}

// newBreaker 按配置构建熔断器.
func newBreaker(cfg *configs.BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "s3-blob",
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)

			return failureRate >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nlog.Logger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("s3 circuit breaker state changed")
		},
	})
}

// exec 在熔断器内执行 S3 调用，未启用熔断时直接执行.
func (s *S3Store) exec(op func() (any, error)) (any, error) {
	if s.breaker == nil {
		return op()
	}

	return s.breaker.Execute(op)
}

// Put 写入内容到活动 bucket.
func (s *S3Store) Put(ctx context.Context, name string, src io.Reader) (string, int64, error) {
	result, err := s.exec(func() (any, error) {
		return s.client.PutObject(ctx, s.bucket, name, src, -1, minio.PutObjectOptions{})
	})
	if err != nil {
		return "", 0, fmt.Errorf("put object %s: %w", name, err)
	}

	info, ok := result.(minio.UploadInfo)
	if !ok {
		return "", 0, fmt.Errorf("unexpected put result type for %s", name)
	}

	return name, info.Size, nil
}

// Open 打开对象内容.
func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := s.exec(func() (any, error) {
		return s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}

	obj, ok := result.(*minio.Object)
	if !ok {
		return nil, fmt.Errorf("unexpected get result type for %s", path)
	}

	return obj, nil
}

// Remove 删除对象，对象缺失时视为成功.
func (s *S3Store) Remove(ctx context.Context, path string) error {
	_, err := s.exec(func() (any, error) {
		return nil, s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("remove object %s: %w", path, err)
	}

	return nil
}

// Archive 将对象移动到归档 bucket.
func (s *S3Store) Archive(ctx context.Context, path string) (string, bool, error) {
	return s.move(ctx, path, s.bucket, s.archiveBucket)
}

// Restore 将对象移回活动 bucket.
func (s *S3Store) Restore(ctx context.Context, path string) (string, bool, error) {
	return s.move(ctx, path, s.archiveBucket, s.bucket)
}

// move 跨 bucket 移动对象，源缺失时原路径原样返回且 moved=false.
func (s *S3Store) move(ctx context.Context, path, srcBucket, dstBucket string) (string, bool, error) {
	_, err := s.exec(func() (any, error) {
		return s.client.StatObject(ctx, srcBucket, path, minio.StatObjectOptions{})
	})
	if err != nil {
		if isNotFound(err) {
			return path, false, nil
		}

		return "", false, fmt.Errorf("stat object %s: %w", path, err)
	}

	_, err = s.exec(func() (any, error) {
		return s.client.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: dstBucket, Object: path},
			minio.CopySrcOptions{Bucket: srcBucket, Object: path},
		)
	})
	if err != nil {
		return "", false, fmt.Errorf("copy object %s: %w", path, err)
	}

	_, err = s.exec(func() (any, error) {
		return nil, s.client.RemoveObject(ctx, srcBucket, path, minio.RemoveObjectOptions{})
	})
	if err != nil {
		return "", false, fmt.Errorf("remove source object %s: %w", path, err)
	}

	return path, true, nil
}

// Exists 检查对象是否存在.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.exec(func() (any, error) {
		return s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat object %s: %w", path, err)
	}

	return true, nil
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (s *S3Store) Close() error {
	return nil
}

// isNotFound 判断 MinIO 错误是否为对象不存在.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404
}

func init() {
	RegisterStoreFactory(configs.BlobBackendS3, NewS3Store)
}
