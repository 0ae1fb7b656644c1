package db

import (
	"fmt"

	"github.com/yeisme/docvault/pkg/internal/model"
)

// Migrate 执行全部模型的自动迁移.
func (c *Client) Migrate() error {
	if err := c.AutoMigrate(
		&model.Document{},
		&model.ArchivedDocument{},
		&model.DocumentVersion{},
		&model.ImageGroup{},
		&model.ArchivedImageGroup{},
		&model.Comment{},
		&model.Permission{},
		&model.ActivityLog{},
		&model.SavedSearch{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
