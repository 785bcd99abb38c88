package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ufwctl/ufwctl/internal/rule"
)

var (
	// Rule set metrics
	RulesCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ufwctl_rules_count",
			Help: "Number of live firewall rules by action",
		},
		[]string{"action"},
	)
	RulesDirectionCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ufwctl_rules_direction_count",
			Help: "Number of live firewall rules by traffic direction",
		},
		[]string{"direction"},
	)

	// Batch apply metrics
	ApplyResults = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ufwctl_apply_results",
			Help: "Rule applications in the last operation by result",
		},
		[]string{"result"},
	)

	// Firewall state metrics
	FirewallActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ufwctl_firewall_active",
			Help: "Firewall state reported by the driver (1 active, 0 inactive)",
		},
	)

	// Guard metrics
	GuardPort = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ufwctl_guard_port",
			Help: "Administrative access port protected by the guard rule",
		},
	)
)

// SetRuleGauges refreshes the per-action and per-direction rule counters from a live listing.
// SetRuleGauges 根据现行规则列表刷新按动作和按方向的规则计数。
func SetRuleGauges(rules rule.RuleSet) {
	RulesCount.Reset()
	RulesDirectionCount.Reset()
	for _, r := range rules {
		RulesCount.WithLabelValues(string(r.Action)).Inc()
		RulesDirectionCount.WithLabelValues(string(r.Direction)).Inc()
	}
}

// SetApplyResults records the outcome counts of the last mutating operation.
// SetApplyResults 记录最近一次变更操作的结果计数。
func SetApplyResults(succeeded, failed int) {
	ApplyResults.WithLabelValues("success").Set(float64(succeeded))
	ApplyResults.WithLabelValues("failure").Set(float64(failed))
}

// SetFirewallActive records the firewall state as a 0/1 gauge.
// SetFirewallActive 以 0/1 指标记录防火墙状态。
func SetFirewallActive(active bool) {
	if active {
		FirewallActive.Set(1)
		return
	}
	FirewallActive.Set(0)
}

// SetGuardPort records the detected administrative access port.
// SetGuardPort 记录检测到的管理访问端口。
func SetGuardPort(port uint16) {
	GuardPort.Set(float64(port))
}
