package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeChannel MQType = "channel"
	MQTypeNATS    MQType = "nats"

	DefaultMQURL         = "localhost:4222"
	DefaultMaxReconnects = 5 // 默认最大重连次数.
	DefaultReconnectWait = 5 // 默认重连等待时间（秒）.
	DefaultMQClientID    = "docvault-app"

	DefaultChannelBuffer = 128 // Go channel 订阅缓冲
)

// MQConfig 事件队列配置.
type MQConfig struct {
	Type          MQType `mapstructure:"type"           rule:"oneof=channel nats"`
	URL           string `mapstructure:"url"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	ClientID      string `mapstructure:"client_id"`
	MaxReconnects int    `mapstructure:"max_reconnects" rule:"min=0,max=100"`
	ReconnectWait int    `mapstructure:"reconnect_wait" rule:"min=1,max=300"`
	ChannelBuffer int    `mapstructure:"channel_buffer" rule:"min=0"`

	// NATS JetStream 细节
	JetStreamEnabled bool   `mapstructure:"jetstream_enabled"`
	StreamName       string `mapstructure:"stream_name"`
	SubjectPrefix    string `mapstructure:"subject_prefix"`
	DurablePrefix    string `mapstructure:"durable_prefix"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeChannel)
	v.SetDefault("mq.url", DefaultMQURL)
	v.SetDefault("mq.user", "")
	v.SetDefault("mq.password", "")
	v.SetDefault("mq.client_id", DefaultMQClientID)
	v.SetDefault("mq.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.channel_buffer", DefaultChannelBuffer)

	v.SetDefault("mq.jetstream_enabled", true)
	v.SetDefault("mq.stream_name", "docvault-stream")
	v.SetDefault("mq.subject_prefix", "docvault.")
	v.SetDefault("mq.durable_prefix", "docvault-durable")
}
