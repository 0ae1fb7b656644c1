// Package identity 提供用户身份与角色查询.
// 身份来源作为显式注入的协作者，而不是进程级全局状态，便于测试替换.
package identity

import (
	"github.com/yeisme/docvault/pkg/configs"
)

// Provider 身份提供者接口.
type Provider interface {
	// Role 返回用户角色，未知用户返回 ok=false.
	Role(userID string) (string, bool)
	// IsAdmin 判断用户是否为管理员.
	IsAdmin(userID string) bool
}

// StaticProvider 基于配置静态用户表的身份提供者.
type StaticProvider struct {
	users map[string]string
}

// NewStaticProvider 从配置构建静态身份提供者.
func NewStaticProvider(cfg *configs.IdentityConfig) *StaticProvider {
	users := make(map[string]string, len(cfg.Users))
	for user, role := range cfg.Users {
		users[user] = role
	}

	return &StaticProvider{users: users}
}

// Role 返回用户角色.
func (p *StaticProvider) Role(userID string) (string, bool) {
	role, ok := p.users[userID]
	return role, ok
}

// IsAdmin 判断用户是否为管理员.
func (p *StaticProvider) IsAdmin(userID string) bool {
	role, ok := p.users[userID]
	return ok && role == configs.AdminRole
}
