package configs

import (
	"github.com/spf13/viper"
)

// IdentityConfig 身份提供者配置：用户名到角色的静态映射.
// 搜索的权限闸门据此判定管理员身份，密码与登录流程不在本服务范围内.
type IdentityConfig struct {
	Users map[string]string `mapstructure:"users"`
}

// AdminRole 管理员角色名.
const AdminRole = "admin"

func (c *IdentityConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("identity.users", map[string]string{
		"admin": AdminRole,
	})
}
