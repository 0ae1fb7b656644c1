// Package jobs 注册后台维护任务：过期授权清理与回收站保留期归档.
// 任务只调用与前台相同的公开服务操作，不绕过服务层直接动存储.
package jobs

import (
	"context"
	"time"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/queue"
	"github.com/yeisme/docvault/pkg/scheduler"
)

const (
	jobExpiredGrants  = "expired-grant-cleanup"
	jobTrashRetention = "trash-retention"

	// maintenanceActor 维护任务写操作的署名.
	maintenanceActor = "system"
)

// Register 按配置把维护任务挂到调度器上.
// ctx 携带存储管理器，任务执行时据此构建服务.
func Register(ctx context.Context, sched *scheduler.Scheduler, cfg *configs.SchedulerConfig) error {
	if !cfg.Enabled {
		nlog.Logger().Info().Msg("maintenance jobs disabled")
		return nil
	}

	if err := sched.AddCron(jobExpiredGrants, cfg.ExpiredGrantCron, sweepExpiredGrants, ctx); err != nil {
		return err
	}

	retentionDays := cfg.TrashRetentionDays

	sweepTrash := func(ctx context.Context) {
		sweepExpiredTrash(ctx, retentionDays)
	}

	return sched.AddCron(jobTrashRetention, cfg.TrashRetentionCron, sweepTrash, ctx)
}

// sweepExpiredGrants 删除所有已过期的文档授权.
func sweepExpiredGrants(ctx context.Context) {
	start := time.Now()
	perms := service.NewPermissionService(ctx)

	removed, err := perms.CleanupExpiredGrants(ctx)
	if err != nil {
		nlog.Logger().Error().Err(err).Msg("expired grant cleanup failed")
		return
	}

	publishSwept(ctx, jobExpiredGrants, removed, time.Since(start))
}

// sweepExpiredTrash 将回收站里滞留超过保留期的文档迁入归档区.
func sweepExpiredTrash(ctx context.Context, retentionDays int) {
	start := time.Now()
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(service.ISOLayout)

	docs := service.NewDocumentService(ctx)

	archived, err := docs.ArchiveExpiredTrash(ctx, cutoff, maintenanceActor)
	if err != nil {
		nlog.Logger().Error().Err(err).Msg("trash retention sweep failed")
		return
	}

	publishSwept(ctx, jobTrashRetention, archived, time.Since(start))
}

func publishSwept(ctx context.Context, job string, swept int, elapsed time.Duration) {
	nlog.Logger().Info().Str("job", job).Int("swept", swept).Dur("elapsed", elapsed).Msg("maintenance job finished")

	mqClient := ctxPkg.GetMQClient(ctx)
	if mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(queue.TopicMaintenanceSwept, queue.MaintenanceSweptPayload{
		Job:     job,
		Swept:   swept,
		Elapsed: elapsed.String(),
	}, queue.WithProducer("docvault"))
	if err != nil {
		return
	}

	if err := mqClient.Publish(context.Background(), queue.TopicMaintenanceSwept, msg); err != nil {
		nlog.Logger().Warn().Err(err).Msg("publish maintenance event failed")
	}
}
