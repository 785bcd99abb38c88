package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/runtime"
)

var (
	// MockDriver allows tests to inject a fake firewall driver.
	// MockDriver 允许测试注入伪造的防火墙驱动。
	MockDriver driver.Driver

	// confirmInput is where confirmation answers are read from. Tests swap
	// it for a canned reader via SetConfirmationReader.
	// confirmInput 是读取确认回答的来源。测试通过 SetConfirmationReader 替换为预设输入。
	confirmInput io.Reader = os.Stdin
)

// GetDriver returns the firewall driver for the active configuration.
// GetDriver 返回当前配置下的防火墙驱动。
func GetDriver(cfg *config.GlobalConfig) driver.Driver {
	if MockDriver != nil {
		return MockDriver
	}
	binary := cfg.Base.UFWBinary
	if binary == "" {
		binary = driver.DefaultBinary
	}
	return driver.NewUFWDriver(binary)
}

// EnsureRoot ensures that mutating commands run with root privileges.
// The driver's own permission errors remain the backstop; this check just
// fails fast with actionable guidance.
// EnsureRoot 确保变更类命令以 root 权限运行。
// 驱动自身的权限错误仍是兜底；此检查只是提前给出明确提示。
var EnsureRoot = func() {
	if MockDriver != nil {
		return
	}
	if os.Geteuid() != 0 {
		fmt.Println("❌ This command must be run as root.")
		os.Exit(1)
	}
}

// SetConfirmationReader redirects confirmation prompts to read from r.
// SetConfirmationReader 将确认提示的输入重定向为从 r 读取。
func SetConfirmationReader(r io.Reader) {
	confirmInput = r
}

// AskConfirmation prompts the user for confirmation. The --yes flag
// answers every prompt affirmatively for scripted use.
// AskConfirmation 提示用户确认。--yes 标志在脚本化使用时自动肯定回答所有提示。
func AskConfirmation(prompt string) bool {
	if runtime.AssumeYes {
		return true
	}
	reader := bufio.NewReader(confirmInput)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
