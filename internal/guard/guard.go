// Package guard detects the administrative access port so destructive
// firewall operations never cut off the operator's own session.
// Package guard 探测管理访问端口，使破坏性防火墙操作不会切断操作员自己的会话。
package guard

import (
	"context"
	"strconv"
	"strings"

	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/utils/fileutil"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// DefaultSSHConfigPath is the sshd configuration consulted first.
const DefaultSSHConfigPath = "/etc/ssh/sshd_config"

// Detector finds the port the operator's remote session depends on.
// Both probe layers are read-only; nothing here mutates system state.
// Detector 查找操作员远程会话所依赖的端口。两个探测层都是只读的，此处不改变系统状态。
type Detector struct {
	// ConfigPath is the sshd configuration file parsed first.
	ConfigPath string
	// Runner executes the listener probe. Injectable for tests.
	Runner driver.CommandRunner
}

func NewDetector() *Detector {
	return &Detector{
		ConfigPath: DefaultSSHConfigPath,
		Runner:     driver.DefaultCommandRunner,
	}
}

// DetectAccessPort returns the administrative access port. It tries an
// uncommented Port directive in the sshd configuration first, then the
// local port of a live sshd listener. When both layers fail it returns
// ErrDetectionFailed: the caller chooses the fallback port and must
// warn that detection failed.
// DetectAccessPort 返回管理访问端口。先查找 sshd 配置中未注释的 Port 指令，
// 再查找运行中 sshd 监听器的本地端口。两层都失败时返回 ErrDetectionFailed：
// 由调用方选择回退端口，并且必须发出警告。
func (d *Detector) DetectAccessPort(ctx context.Context) (uint16, error) {
	if port, ok := d.portFromConfig(); ok {
		return port, nil
	}
	if port, ok := d.portFromListeners(ctx); ok {
		return port, nil
	}
	return 0, errors.NewDetectionError(
		"no Port directive in " + d.ConfigPath + " and no sshd listener found")
}

// portFromConfig scans the sshd configuration for the first valid
// uncommented Port directive.
func (d *Detector) portFromConfig() (uint16, bool) {
	lines, err := fileutil.ReadLines(d.ConfigPath)
	if err != nil {
		return 0, false
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "Port ") && !strings.HasPrefix(line, "Port\t") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if port, ok := parsePort(fields[1]); ok {
			return port, true
		}
	}
	return 0, false
}

// portFromListeners scans `ss -H -t -l -n -p` output for the sshd
// listener. The local address is the fourth column; taking the text
// after the last colon keeps bracketed IPv6 forms like "[::]:22"
// intact.
// portFromListeners 在 `ss -H -t -l -n -p` 输出中查找 sshd 监听器。
// 本地地址位于第四列；取最后一个冒号之后的文本可以正确处理 "[::]:22" 这类 IPv6 形式。
func (d *Detector) portFromListeners(ctx context.Context) (uint16, bool) {
	out, err := d.Runner.Output(ctx, "ss", "-H", "-t", "-l", "-n", "-p")
	if err != nil {
		return 0, false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, `"sshd"`) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		local := fields[3]
		i := strings.LastIndex(local, ":")
		if i < 0 || i == len(local)-1 {
			continue
		}
		if port, ok := parsePort(local[i+1:]); ok {
			return port, true
		}
	}
	return 0, false
}

func parsePort(s string) (uint16, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return 0, false
	}
	return uint16(n), true
}
