package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultExpiredGrantCron   = "0 3 * * *" // 每天 03:00
	DefaultTrashRetentionCron = "0 4 * * *" // 每天 04:00
	DefaultTrashRetentionDays = 30
)

// SchedulerConfig 后台维护任务配置. 所有任务默认关闭，调度只调用与
// 前台相同的公开服务操作.
type SchedulerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	ExpiredGrantCron   string `mapstructure:"expired_grant_cron"`
	TrashRetentionCron string `mapstructure:"trash_retention_cron"`
	TrashRetentionDays int    `mapstructure:"trash_retention_days" rule:"min=1"`
}

func (c *SchedulerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.expired_grant_cron", DefaultExpiredGrantCron)
	v.SetDefault("scheduler.trash_retention_cron", DefaultTrashRetentionCron)
	v.SetDefault("scheduler.trash_retention_days", DefaultTrashRetentionDays)
}
