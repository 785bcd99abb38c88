package main

import (
	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
)

func main() {
	// Config loading and logger setup happen in the root command's
	// PersistentPreRun so that --config is honored.
	// 配置加载与日志初始化在根命令的 PersistentPreRun 中完成，
	// 以便 --config 参数生效。
	defer logger.Sync()
	commands.Execute()
}
