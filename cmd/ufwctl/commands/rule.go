package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/ipmerge"
)

// AllowCmd 实现 'allow' 命令（添加允许规则）
// AllowCmd implements the 'allow' command (add an allow rule)
var AllowCmd = &cobra.Command{
	Use:   "allow <port>[/protocol]",
	Short: "Allow traffic on a port",
	// Short: 允许某端口的流量
	Long: `Allow traffic on a port.
允许某端口的流量。

Port may be a number (80), a range (6000:6007) or a named service (ssh).
端口可以是数字（80）、范围（6000:6007）或服务名（ssh）。

Examples:
  ufwctl allow 80/tcp
  ufwctl allow 53
  ufwctl allow 8080/tcp --from 10.0.0.0/8 --comment "internal web"
  ufwctl allow 443/tcp --from 10.0.0.0/25,10.0.0.128/25`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAddRuleCommand(cmd, rule.ActionAllow, args[0])
	},
}

// DenyCmd 实现 'deny' 命令（添加拒绝规则，静默丢弃）
// DenyCmd implements the 'deny' command (add a deny rule, silent drop)
var DenyCmd = &cobra.Command{
	Use:   "deny <port>[/protocol]",
	Short: "Deny traffic on a port",
	// Short: 拒绝某端口的流量
	Long: `Deny traffic on a port (drop without response).
拒绝某端口的流量（丢弃且不响应）。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAddRuleCommand(cmd, rule.ActionDeny, args[0])
	},
}

// RejectCmd 实现 'reject' 命令（添加驳回规则，回应拒绝）
// RejectCmd implements the 'reject' command (add a reject rule, answered refusal)
var RejectCmd = &cobra.Command{
	Use:   "reject <port>[/protocol]",
	Short: "Reject traffic on a port",
	// Short: 驳回某端口的流量
	Long: `Reject traffic on a port (refuse with a response).
驳回某端口的流量（以响应拒绝）。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAddRuleCommand(cmd, rule.ActionReject, args[0])
	},
}

// LimitCmd 实现 'limit' 命令（添加限速规则）
// LimitCmd implements the 'limit' command (add a rate-limit rule)
var LimitCmd = &cobra.Command{
	Use:   "limit <port>[/protocol]",
	Short: "Rate-limit connections to a port",
	// Short: 限制到某端口的连接速率
	Long: `Rate-limit connections to a port. Useful against brute-force
attempts on administrative services.
限制到某端口的连接速率。可用于防护管理服务上的暴力尝试。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAddRuleCommand(cmd, rule.ActionLimit, args[0])
	},
}

// DeleteCmd 实现 'delete' 命令（按编号或规则描述删除）
// DeleteCmd implements the 'delete' command (remove by number or specification)
var DeleteCmd = &cobra.Command{
	Use:     "delete <number | action <port>[/protocol]>",
	Aliases: []string{"del"},
	Short:   "Delete a rule by number or specification",
	// Short: 按编号或规则描述删除规则
	Long: `Delete a rule by its position in the numbered listing, or by
repeating the rule specification.
按编号列表中的位置删除规则，或重复规则描述进行删除。

Examples:
  ufwctl delete 3
  ufwctl delete allow 80/tcp
  ufwctl delete deny 53 --direction out`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if n, ok := common.ParseRuleNumber(args[0]); ok && len(args) == 1 {
			runDeleteByNumber(cmd, n)
			return
		}
		if len(args) != 2 {
			cmd.PrintErrln("[ERROR] Specification form requires an action and a port, e.g. 'delete allow 80/tcp'")
			os.Exit(1)
		}
		runDeleteBySpec(cmd, args[0], args[1])
	},
}

func init() {
	// Rule selector flags shared by the add commands
	// 添加规则命令共享的规则选择器标志
	for _, cmd := range []*cobra.Command{AllowCmd, DenyCmd, RejectCmd, LimitCmd} {
		registerRuleFlags(cmd)
		cmd.Flags().String("comment", "", "Attach a comment to the rule")
	}
	registerRuleFlags(DeleteCmd)
}

// registerRuleFlags 注册规则匹配标志（方向/来源/目的）
// registerRuleFlags registers the rule match flags (direction/from/to)
func registerRuleFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("direction", "d", "in", "Traffic direction: in or out")
	cmd.Flags().String("from", "", "Source address (CIDR), default any; a comma-separated list is merged to minimal CIDR blocks")
	cmd.Flags().String("to", "", "Destination address (CIDR), default any")
}

// ruleFromFlags 从命令参数和标志构建经过验证的规则
// ruleFromFlags builds a validated rule from the argument and flags
func ruleFromFlags(cmd *cobra.Command, action rule.Action, portSpec string) (rule.Rule, error) {
	from, _ := cmd.Flags().GetString("from")
	return ruleFromFlagsWithSource(cmd, action, portSpec, from)
}

// ruleFromFlagsWithSource 使用给定来源地址构建规则，其余字段取自标志
// ruleFromFlagsWithSource builds a rule with the given source address, the
// remaining fields coming from the flags
func ruleFromFlagsWithSource(cmd *cobra.Command, action rule.Action, portSpec, from string) (rule.Rule, error) {
	port, proto, err := common.ParsePortSpec(portSpec)
	if err != nil {
		return rule.Rule{}, err
	}

	direction, _ := cmd.Flags().GetString("direction")
	to, _ := cmd.Flags().GetString("to")
	comment, _ := cmd.Flags().GetString("comment")

	return rule.New(string(action), direction, proto, port, from, to, comment)
}

// expandSources 将逗号分隔的来源列表合并为最小 CIDR 块集合
// expandSources merges a comma-separated source list into minimal CIDR blocks.
// A single source (or none) passes through untouched so named entries like
// "any" keep working.
func expandSources(from string) ([]string, error) {
	if !strings.Contains(from, ",") {
		return []string{from}, nil
	}
	parts := strings.Split(from, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	merged, err := ipmerge.MergeCIDRs(parts)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("no valid source address in %q", from)
	}
	return merged, nil
}

// runAddRuleCommand 执行添加规则命令的通用逻辑
// runAddRuleCommand executes the common logic of the add-rule commands
func runAddRuleCommand(cmd *cobra.Command, action rule.Action, portSpec string) {
	from, _ := cmd.Flags().GetString("from")
	sources, err := expandSources(from)
	if err != nil {
		cmd.PrintErrln("[ERROR] " + err.Error())
		os.Exit(1)
	}

	rules := make([]rule.Rule, 0, len(sources))
	for _, src := range sources {
		r, err := ruleFromFlagsWithSource(cmd, action, portSpec, src)
		if err != nil {
			cmd.PrintErrln("[ERROR] " + err.Error())
			os.Exit(1)
		}
		rules = append(rules, r)
	}

	executor := NewCommandExecutor(cmd)
	executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
		for _, r := range rules {
			if err := core.AddRule(ctx, drv, r); err != nil {
				return fmt.Errorf("[ERROR] Failed to apply rule: %v", err)
			}
			executor.PrintSuccess("Rule applied: " + r.String())
		}
		return nil
	})
}

// runDeleteByNumber 按列表编号删除规则
// runDeleteByNumber removes the rule at the given listing position
func runDeleteByNumber(cmd *cobra.Command, n int) {
	executor := NewCommandExecutor(cmd)
	executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
		status, err := core.FetchStatus(ctx, drv)
		if err != nil {
			return fmt.Errorf("[ERROR] Failed to read rule listing: %v", err)
		}

		var target *driver.ListedRule
		for i := range status.Rules {
			if status.Rules[i].Number == n {
				target = &status.Rules[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("[ERROR] No rule at position %d", n)
		}

		fmt.Printf("Deleting rule: [%4d] %s %s %s\n", target.Number, target.To, target.Action, target.From)
		if !common.AskConfirmation("Proceed with deletion?") {
			fmt.Println("[CANCELLED] Deletion cancelled")
			return nil
		}

		if err := core.DeleteRule(ctx, drv, driver.SelectNumber(n)); err != nil {
			return fmt.Errorf("[ERROR] Failed to delete rule: %v", err)
		}
		executor.PrintSuccess(fmt.Sprintf("Rule %d deleted", n))
		return nil
	})
}

// runDeleteBySpec 按完整规则描述删除规则
// runDeleteBySpec removes the first rule matching the full specification
func runDeleteBySpec(cmd *cobra.Command, action, portSpec string) {
	act, err := rule.ParseAction(action)
	if err != nil {
		cmd.PrintErrln("[ERROR] " + err.Error())
		os.Exit(1)
	}
	r, err := ruleFromFlags(cmd, act, portSpec)
	if err != nil {
		cmd.PrintErrln("[ERROR] " + err.Error())
		os.Exit(1)
	}

	fmt.Printf("Deleting rule: %s\n", r.String())
	if !common.AskConfirmation("Proceed with deletion?") {
		fmt.Println("[CANCELLED] Deletion cancelled")
		return
	}

	executor := NewCommandExecutor(cmd)
	executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
		if err := core.DeleteRule(ctx, drv, driver.SelectRule(r)); err != nil {
			return fmt.Errorf("[ERROR] Failed to delete rule: %v", err)
		}
		executor.PrintSuccess("Rule deleted: " + r.String())
		return nil
	})
}
