package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// BlobBackend Blob 存储后端类型.
type BlobBackend string

const (
	BlobBackendLocal BlobBackend = "local"
	BlobBackendS3    BlobBackend = "s3"
)

const (
	DefaultStorageDir = "data/storage" // 默认活动文件目录
	DefaultArchiveDir = "data/archive" // 默认归档目录
	DefaultTempDir    = "data/temp"    // 默认临时目录
)

// StorageConfig Blob 存储配置.
type StorageConfig struct {
	Backend    BlobBackend `mapstructure:"backend"     rule:"oneof=local s3"`
	StorageDir string      `mapstructure:"storage_dir"`
	ArchiveDir string      `mapstructure:"archive_dir"`
	TempDir    string      `mapstructure:"temp_dir"`
	S3         S3Config    `mapstructure:"s3"`
}

// S3Config MinIO S3 后端配置.
type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	BucketName      string        `mapstructure:"bucket_name"`
	ArchiveBucket   string        `mapstructure:"archive_bucket"`
	Region          string        `mapstructure:"region"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig S3 调用的熔断配置.
type BreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"`
	IntervalSeconds   int     `mapstructure:"interval_seconds"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	MinRequests       uint32  `mapstructure:"min_requests"`
	FailureRate       float64 `mapstructure:"failure_rate"`
}

const (
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "docvault"       // 默认存储桶名称
	DefaultS3ArchiveBucket   = "docvault-archive"
	DefaultS3Region          = "us-east-1" // 默认区域
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置存储配置的默认值.
func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BlobBackendLocal)
	v.SetDefault("storage.storage_dir", DefaultStorageDir)
	v.SetDefault("storage.archive_dir", DefaultArchiveDir)
	v.SetDefault("storage.temp_dir", DefaultTempDir)

	v.SetDefault("storage.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("storage.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("storage.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("storage.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("storage.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("storage.s3.archive_bucket", DefaultS3ArchiveBucket)
	v.SetDefault("storage.s3.region", DefaultS3Region)

	v.SetDefault("storage.s3.breaker.enabled", true)
	v.SetDefault("storage.s3.breaker.max_requests_in_half", 5)
	v.SetDefault("storage.s3.breaker.interval_seconds", 60)
	v.SetDefault("storage.s3.breaker.timeout_seconds", 30)
	v.SetDefault("storage.s3.breaker.min_requests", 10)
	v.SetDefault("storage.s3.breaker.failure_rate", 0.5)
}
