// Package service 实现文档库的核心业务：文档、版本、图片组、搜索、授权与活动记录.
package service

import (
	"context"
	"time"

	"github.com/yeisme/docvault/pkg/cache"
	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/identity"
	"github.com/yeisme/docvault/pkg/internal/storage/blob"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/kv"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
)

// Service 聚合各服务共享的依赖.
type Service struct {
	dbClient   *db.Client
	blobClient *blob.Client
	kvClient   *kv.Client
	mqClient   *mq.Client
	cache      *cache.Cache
	idp        identity.Provider
}

// newService 从 context 取出存储依赖构建基础服务.
func newService(c context.Context) *Service {
	s := &Service{
		dbClient:   ctxPkg.GetDBClient(c),
		blobClient: ctxPkg.GetBlobClient(c),
		kvClient:   ctxPkg.GetKVClient(c),
		mqClient:   ctxPkg.GetMQClient(c),
		idp:        identity.NewStaticProvider(&configs.GetConfig().Identity),
	}

	if s.kvClient != nil {
		s.cache = cache.NewCache(s.kvClient.KVStore)
	}

	return s
}

// WithIdentity 替换身份提供者，用于注入测试替身或外部身份源.
func (s *Service) WithIdentity(p identity.Provider) *Service {
	s.idp = p
	return s
}

// ISOLayout 定宽纳秒精度的 ISO-8601 布局.
// 小数位不定宽时（RFC3339Nano 去尾零）字典序与时间序会背离，
// 而过期判断与各列表排序都依赖字典序比较，故小数位固定九位.
const ISOLayout = "2006-01-02T15:04:05.000000000Z"

// nowISO 返回当前 UTC 时间的 ISO-8601 文本，数据库时间戳列统一用它.
func nowISO() string {
	return time.Now().UTC().Format(ISOLayout)
}
