package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ufwctl/ufwctl/internal/config"
)

// Flush writes the textfile snapshot when the configuration enables it.
// Flush 在配置启用时写出指标文本文件快照。
func Flush(cfg config.MetricsConfig) error {
	if !cfg.TextfileEnabled || cfg.TextfilePath == "" {
		return nil
	}
	return WriteTextfile(cfg.TextfilePath)
}

// WriteTextfile dumps all registered metrics to path in the Prometheus text
// exposition format for the node_exporter textfile collector.
// WriteTextfile 将所有已注册的指标以 Prometheus 文本格式写入 path，
// 供 node_exporter textfile 收集器使用。
func WriteTextfile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create metrics textfile: %v", err)
	}

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to gather metrics: %v", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.Format("text/plain; version=0.0.4"))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode metrics: %v", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close metrics textfile: %v", err)
	}

	// Atomic rename
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename metrics textfile: %v", err)
	}
	return nil
}
