// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集应用和系统指标.
//
// Example:
//
//	import "github.com/yeisme/docvault/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 记录指标
//	metrics.DocumentOps.WithLabelValues("add").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/docvault/pkg/configs"
)

// 全局指标变量.
var (
	// DocumentOps 文档操作计数器，label为操作类型（add/update/remove/archive/restore）.
	DocumentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvault_document_operations_total",
			Help: "Total number of document operations",
		},
		[]string{"operation"},
	)

	// VersionsCreated 文档版本创建计数器.
	VersionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_versions_created_total",
			Help: "Total number of document versions created",
		},
	)

	// SearchDuration 搜索耗时直方图.
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docvault_search_duration_seconds",
			Help:    "Document search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BlobBytesMoved 存储移动字节计数器，label为方向（in/out）.
	BlobBytesMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvault_blob_bytes_moved_total",
			Help: "Total number of blob bytes moved through storage",
		},
		[]string{"direction"},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化Metrics.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	// 注册标准收集器
	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// 注册自定义指标
	registry.MustRegister(DocumentOps, VersionsCreated, SearchDuration, BlobBytesMoved)

	return nil
}

// StartMetricsServer 启动Metrics HTTP服务器，非阻塞.
func StartMetricsServer(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// 如果启用pprof，注册pprof端点
	if config.Pprof {
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}

	server := &http.Server{
		Addr:              config.Endpoint,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = server.ListenAndServe()
	}()

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// NewCounter 创建新的计数器指标.
func NewCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(counter)

	return counter
}

// NewGauge 创建新的仪表盘指标.
func NewGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(gauge)

	return gauge
}

// NewHistogram 创建新的直方图指标.
func NewHistogram(name, help string, labels []string) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: prometheus.DefBuckets,
		},
		labels,
	)
	registry.MustRegister(histogram)

	return histogram
}
