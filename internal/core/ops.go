package core

import (
	"context"

	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/metrics"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
)

/**
 * AddRule applies a single validated rule to the live firewall, aborting on
 * the first error.
 * AddRule 将单条已验证的规则应用到现行防火墙，遇到错误即中止。
 */
func AddRule(ctx context.Context, drv driver.Driver, r rule.Rule) error {
	log := logger.Get(ctx)
	if err := drv.Apply(ctx, r); err != nil {
		metrics.SetApplyResults(0, 1)
		return err
	}
	metrics.SetApplyResults(1, 0)
	log.Infof("🛡️ Applied rule: %s", r)
	return nil
}

/**
 * DeleteRule removes the rule matched by sel, either a listing number or a
 * full specification.
 * DeleteRule 删除 sel 匹配的规则，可以按列表编号或完整规格匹配。
 */
func DeleteRule(ctx context.Context, drv driver.Driver, sel driver.Selector) error {
	log := logger.Get(ctx)
	if err := drv.Remove(ctx, sel); err != nil {
		return err
	}
	log.Infof("🗑️ Deleted rule %s", sel)
	return nil
}

/**
 * EnableFirewall turns the configured rule set live.
 * EnableFirewall 使已配置的规则集生效。
 */
func EnableFirewall(ctx context.Context, drv driver.Driver) error {
	log := logger.Get(ctx)
	if err := drv.Enable(ctx); err != nil {
		return err
	}
	metrics.SetFirewallActive(true)
	log.Infof("✅ Firewall enabled")
	return nil
}

/**
 * DisableFirewall stops filtering without clearing rules.
 * DisableFirewall 停止过滤但不清除规则。
 */
func DisableFirewall(ctx context.Context, drv driver.Driver) error {
	log := logger.Get(ctx)
	if err := drv.Disable(ctx); err != nil {
		return err
	}
	metrics.SetFirewallActive(false)
	log.Infof("⏸️  Firewall disabled")
	return nil
}

/**
 * ReloadFirewall re-reads the live rule set.
 * ReloadFirewall 重新加载现行规则集。
 */
func ReloadFirewall(ctx context.Context, drv driver.Driver) error {
	log := logger.Get(ctx)
	if err := drv.Reload(ctx); err != nil {
		return err
	}
	log.Infof("🔄 Firewall reloaded")
	return nil
}

/**
 * ResetFirewall returns the firewall to its empty baseline. Destructive:
 * the caller must confirm before invoking.
 * ResetFirewall 将防火墙恢复到空基线。破坏性操作：调用前必须由调用方确认。
 */
func ResetFirewall(ctx context.Context, drv driver.Driver) error {
	log := logger.Get(ctx)
	if err := drv.Reset(ctx); err != nil {
		return err
	}
	metrics.SetFirewallActive(false)
	metrics.SetRuleGauges(nil)
	log.Infof("🧹 Firewall reset to baseline")
	return nil
}

/**
 * FetchStatus queries the firewall state and the numbered rule listing.
 * FetchStatus 查询防火墙状态和带编号的规则列表。
 */
func FetchStatus(ctx context.Context, drv driver.Driver) (*driver.Status, error) {
	status, err := drv.Status(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetFirewallActive(status.Active)
	return status, nil
}

/**
 * LiveRules lists the current rules in model form.
 * LiveRules 以模型形式列出当前规则。
 */
func LiveRules(ctx context.Context, drv driver.Driver) (rule.RuleSet, error) {
	rules, err := drv.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetRuleGauges(rules)
	return rules, nil
}
