package service

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// ActivityService 文档活动记录服务，只追加的审计轨迹.
type ActivityService struct{ *Service }

// NewActivityService 创建活动记录服务.
func NewActivityService(c context.Context) *ActivityService {
	return &ActivityService{newService(c)}
}

// 活动 ID 用 ULID，按时间有序，翻审计日志时天然按发生顺序排列.
var (
	activityEntropyMu sync.Mutex
	activityEntropy   = ulid.Monotonic(crand.Reader, 0)
)

func newActivityID() string {
	activityEntropyMu.Lock()
	defer activityEntropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), activityEntropy).String()
}

// LogActivity 追加一条活动记录，返回其 ID.
// 除活动类型枚举外不做其他校验，data 为任意附加数据.
func (s *ActivityService) LogActivity(ctx context.Context, documentID, userID string, activityType types.ActivityType, data map[string]any, ipAddress, userAgent string) (string, error) {
	if !types.IsValidActivityType(activityType) {
		return "", fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, activityType)
	}

	var dataJSON string

	if len(data) > 0 {
		encoded, err := sonic.MarshalString(data)
		if err != nil {
			return "", fmt.Errorf("marshal activity data: %w", err)
		}

		dataJSON = encoded
	}

	activity := model.ActivityLog{
		ID:               newActivityID(),
		DocumentID:       documentID,
		UserID:           userID,
		ActivityType:     string(activityType),
		ActivityDataJSON: dataJSON,
		CreatedAt:        nowISO(),
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&activity).Error; err != nil {
		return "", mapDBError(err)
	}

	return activity.ID, nil
}

// GetDocumentActivity 按时间倒序列出文档的活动记录.
func (s *ActivityService) GetDocumentActivity(ctx context.Context, documentID string) ([]types.ActivityInfo, error) {
	var rows []model.ActivityLog
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	activities := make([]types.ActivityInfo, 0, len(rows))

	for _, row := range rows {
		info := types.ActivityInfo{
			ID:           row.ID,
			DocumentID:   row.DocumentID,
			UserID:       row.UserID,
			ActivityType: types.ActivityType(row.ActivityType),
			CreatedAt:    row.CreatedAt,
			IPAddress:    row.IPAddress,
			UserAgent:    row.UserAgent,
		}

		if row.ActivityDataJSON != "" {
			var data map[string]any
			if err := sonic.UnmarshalString(row.ActivityDataJSON, &data); err != nil {
				return nil, fmt.Errorf("activity %s: %w", row.ID, err)
			}

			info.ActivityData = data
		}

		activities = append(activities, info)
	}

	return activities, nil
}
