package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ufwctl/ufwctl/internal/rule"
)

const (
	// MinPort 最小端口号
	// MinPort minimum port number
	MinPort = 1

	// MaxPort 最大端口号
	// MaxPort maximum port number
	MaxPort = 65535

	// MinLogLines 日志命令显示的最少行数
	// MinLogLines minimum number of lines for the logs command
	MinLogLines = 1

	// MaxLogLines 日志命令显示的最多行数
	// MaxLogLines maximum number of lines for the logs command
	MaxLogLines = 100000
)

// ParsePortSpec splits a <port>[/<protocol>] argument into its parts and
// validates both. The port part may be a number, a start:end range, or a
// named service; the protocol part defaults to any.
// ParsePortSpec 将 <port>[/<protocol>] 参数拆分为两部分并分别校验。
// 端口部分可以是数字、start:end 范围或服务名；协议部分默认为 any。
func ParsePortSpec(spec string) (port string, proto string, err error) {
	port = strings.TrimSpace(spec)
	if cut, rest, ok := strings.Cut(port, "/"); ok {
		port, proto = cut, rest
	}
	if port == "" {
		return "", "", fmt.Errorf("[ERROR] Missing port specification")
	}
	if err := rule.ValidatePortSpec(port); err != nil {
		return "", "", err
	}
	if _, err := rule.ParseProtocol(proto); err != nil {
		return "", "", err
	}
	return port, proto, nil
}

// ValidatePort 验证端口号范围（1-65535）
// ValidatePort validates port number range (1-65535)
// 返回 nil 表示验证通过，否则返回错误信息
// Returns nil if valid, otherwise returns error
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("[ERROR] Port must be between %d-%d, got %d", MinPort, MaxPort, port)
	}
	return nil
}

// ValidateLogLines 验证日志行数参数范围
// ValidateLogLines validates the logs line count parameter range
func ValidateLogLines(lines int) error {
	if lines < MinLogLines || lines > MaxLogLines {
		return fmt.Errorf("[ERROR] Lines must be between %d-%d, got %d", MinLogLines, MaxLogLines, lines)
	}
	return nil
}

// ParseRuleNumber 解析规则编号参数（1 起始的列表序号）
// ParseRuleNumber parses a rule number argument (1-based listing index)
// 返回 0 和 false 表示参数不是数字
// Returns 0 and false when the argument is not numeric
func ParseRuleNumber(s string) (int, bool) {
	// strconv.Atoi is strict: "22/tcp" never parses as 22.
	// strconv.Atoi 是严格的："22/tcp" 不会被解析为 22。
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
