package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/metrics"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
)

// Baseline initialization step names, in execution order. Reset runs first
// so leftover rules cannot conflict, and the guard rule is applied and
// verified before the firewall is enabled; the window during which the host
// is unreachable is the reset call alone.
// 基线初始化步骤名称，按执行顺序排列。Reset 最先执行以避免遗留规则冲突，
// 守护规则在启用防火墙之前应用并验证；主机不可达的窗口仅限于 reset 调用本身。
const (
	StepReset      = "reset"
	StepDefaultIn  = "default-incoming-deny"
	StepDefaultOut = "default-outgoing-allow"
	StepGuardRule  = "guard-rule"
	StepVerify     = "verify-guard"
	StepEnable     = "enable"
)

// StepResult records one initialization step's outcome.
// StepResult 记录单个初始化步骤的结果。
type StepResult struct {
	Name    string
	Err     error
	Skipped bool
	Elapsed time.Duration
}

// Report enumerates every step of a baseline initialization run. Steps
// following a failure are listed as skipped rather than dropped, so the
// operator can see exactly how far the baseline reached.
// Report 枚举基线初始化运行的每个步骤。失败之后的步骤标记为跳过而不是省略，
// 操作员因此可以准确看到基线执行到了哪一步。
type Report struct {
	GuardPort    uint16
	PortDetected bool // false when the configured fallback port was used / 使用配置的回退端口时为 false
	Steps        []StepResult
	Elapsed      time.Duration
}

// Failed reports whether any step failed.
// Failed 报告是否有步骤失败。
func (r *Report) Failed() bool {
	return r.FirstError() != nil
}

// FirstError returns the first failed step's error, or nil.
// FirstError 返回第一个失败步骤的错误，没有则返回 nil。
func (r *Report) FirstError() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

/**
 * RunBaselineInit wipes the firewall and rebuilds the deny-by-default
 * baseline: reset, default policies, guard rule for the administrative
 * access port, verification against the recorded rules, enable. A failed
 * step aborts the remaining ones; every step still appears in the report.
 * RunBaselineInit 清空防火墙并重建默认拒绝基线：重置、默认策略、
 * 管理访问端口的守护规则、对照已记录规则验证、启用。失败的步骤会中止后续步骤；
 * 所有步骤仍会出现在报告中。
 */
func RunBaselineInit(ctx context.Context, drv driver.Driver, det PortDetector, fallbackPort uint16) *Report {
	log := logger.Get(ctx)
	start := time.Now()
	report := &Report{}

	port, err := det.DetectAccessPort(ctx)
	if err != nil {
		log.Warnf("⚠️  Access port detection failed, falling back to %d: %v", fallbackPort, err)
		port = fallbackPort
	} else {
		report.PortDetected = true
		log.Infof("ℹ️  Administrative access port: %d", port)
	}
	report.GuardPort = port
	guardRule := rule.GuardRule(port)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepReset, drv.Reset},
		{StepDefaultIn, func(ctx context.Context) error {
			return drv.SetDefaultPolicy(ctx, rule.DirectionIn, rule.ActionDeny)
		}},
		{StepDefaultOut, func(ctx context.Context) error {
			return drv.SetDefaultPolicy(ctx, rule.DirectionOut, rule.ActionAllow)
		}},
		{StepGuardRule, func(ctx context.Context) error {
			return drv.Apply(ctx, guardRule)
		}},
		{StepVerify, func(ctx context.Context) error {
			return verifyGuardRule(ctx, drv, guardRule)
		}},
		{StepEnable, drv.Enable},
	}

	aborted := false
	for _, step := range steps {
		if aborted {
			report.Steps = append(report.Steps, StepResult{Name: step.name, Skipped: true})
			continue
		}
		stepStart := time.Now()
		err := step.run(ctx)
		report.Steps = append(report.Steps, StepResult{
			Name:    step.name,
			Err:     err,
			Elapsed: time.Since(stepStart),
		})
		if err != nil {
			log.Errorf("❌ Baseline step %s failed: %v", step.name, err)
			aborted = true
			continue
		}
		log.Infof("✅ Baseline step %s completed", step.name)
	}
	report.Elapsed = time.Since(start)

	if !report.Failed() {
		metrics.SetGuardPort(port)
		metrics.SetFirewallActive(true)
		log.Infof("🚀 Baseline initialization complete, access guarded on port %d", port)
	}
	return report
}

// verifyGuardRule re-reads the recorded rules and confirms the guard rule
// took. The status listing is empty right after a reset while the firewall
// is still inactive, so the recorded-rules listing is the one consulted.
// verifyGuardRule 重新读取已记录的规则并确认守护规则已生效。重置后防火墙
// 尚未激活时状态列表为空，因此查询的是已记录规则列表。
func verifyGuardRule(ctx context.Context, drv driver.Driver, guard rule.Rule) error {
	rules, err := drv.ListAdded(ctx)
	if err != nil {
		return err
	}
	if !rules.Contains(guard) {
		return fmt.Errorf("guard rule %q not present after apply", guard.String())
	}
	return nil
}
