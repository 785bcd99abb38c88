package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
)

// LogsCmd 实现 'logs' 命令（查看/跟踪操作日志）
// LogsCmd implements the 'logs' command (show/follow the operations log)
var LogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the operations log",
	// Short: 显示操作日志
	Long: `Show the tail of the operations log. With --follow, keep
streaming new entries until interrupted; log rotation is handled.
显示操作日志的末尾。使用 --follow 持续输出新条目直至中断；
日志轮转会被正确处理。

Examples:
  ufwctl logs
  ufwctl logs --lines 200
  ufwctl logs --follow`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		if err := common.ValidateLogLines(lines); err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}

		executor := NewCommandExecutor(cmd)
		executor.Do(func() error {
			cfg := executor.LoadConfig()
			path := cfg.Logging.Path
			if path == "" {
				path = config.DefaultLogPath
			}

			if err := printLastLines(cmd, path, lines); err != nil {
				return err
			}
			if !follow {
				return nil
			}
			return followLog(cmd, path)
		})
	},
}

func init() {
	LogsCmd.Flags().BoolP("follow", "f", false, "Keep streaming new log entries")
	LogsCmd.Flags().IntP("lines", "n", 50, "Number of trailing lines to show")
}

// printLastLines 输出日志文件的最后 n 行
// printLastLines prints the last n lines of the log file
func printLastLines(cmd *cobra.Command, path string, n int) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's own config
	if os.IsNotExist(err) {
		cmd.Printf("[INFO] No log entries yet (%s does not exist)\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("[ERROR] Failed to read log file: %v", err)
	}

	all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(all) == 1 && all[0] == "" {
		cmd.Printf("[INFO] Log file %s is empty\n", path)
		return nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	for _, line := range all {
		cmd.Println(line)
	}
	return nil
}

// followLog 从文件末尾开始持续输出新日志行，直到收到中断信号
// followLog streams new log lines from the end of the file until interrupted
func followLog(cmd *cobra.Command, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Follow:    true,
		ReOpen:    true, // Handle log rotation
		MustExist: false,
		Poll:      true, // Fallback if inotify fails
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("[ERROR] Failed to follow log file: %v", err)
	}
	defer t.Cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return fmt.Errorf("[ERROR] Log stream failed: %v", line.Err)
			}
			cmd.Println(line.Text)
		}
	}
}
