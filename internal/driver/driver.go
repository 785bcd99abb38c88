// Package driver mediates between the rule model and the host firewall
// front-end. The concrete implementation shells out to the external ufw
// utility; the Driver interface exists so command and orchestration code
// can run against a fake.
// Package driver 在规则模型与主机防火墙前端之间进行协调。
// 具体实现通过外部 ufw 工具执行操作；Driver 接口的存在使命令和编排代码可以针对伪实现运行。
package driver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ufwctl/ufwctl/internal/rule"
)

// Driver is the operation surface of a host firewall front-end.
// All mutating calls go through it so a fake can be injected in tests.
// Driver 是主机防火墙前端的操作界面。所有变更调用都经由它，便于在测试中注入伪实现。
type Driver interface {
	// Reset removes every rule and disables the firewall.
	Reset(ctx context.Context) error
	// Enable activates the firewall with the current rule set.
	Enable(ctx context.Context) error
	// Disable deactivates the firewall without touching rules.
	Disable(ctx context.Context) error
	// Reload re-applies the current rule set.
	Reload(ctx context.Context) error
	// SetDefaultPolicy sets the policy applied to unmatched traffic in
	// one direction.
	SetDefaultPolicy(ctx context.Context, direction rule.Direction, policy rule.Action) error
	// Apply installs a single rule.
	Apply(ctx context.Context, r rule.Rule) error
	// Remove deletes the rule identified by sel.
	Remove(ctx context.Context, sel Selector) error
	// List returns the live rules expressible in the normalized model,
	// in listing order. Always a fresh snapshot, never cached. The
	// front-end lists nothing while the firewall is inactive.
	List(ctx context.Context) (rule.RuleSet, error)
	// ListAdded returns the rules recorded by the front-end whether or
	// not the firewall is active, so callers can verify applied rules
	// before enabling.
	ListAdded(ctx context.Context) (rule.RuleSet, error)
	// Status returns the parsed firewall state and the numbered listing.
	Status(ctx context.Context) (*Status, error)
	// Version returns the front-end tool version.
	Version(ctx context.Context) (string, error)
}

// Status is the parsed state of the firewall front-end.
// Status 是防火墙前端的解析后状态。
type Status struct {
	// Active reports whether the firewall is enforcing rules.
	Active bool
	// Logging is the logging line as reported, e.g. "on (low)".
	Logging string
	// Default is the default policy line, e.g.
	// "deny (incoming), allow (outgoing), disabled (routed)".
	Default string
	// Profiles is the new-profiles policy, e.g. "skip".
	Profiles string
	// Rules is the numbered rule listing.
	Rules []ListedRule
}

// ListedRule is one row of the numbered rule listing, split into the
// listing's columns. Raw cells are preserved so rows the normalized
// model cannot express still display and delete by number.
// ListedRule 是编号规则列表中的一行，按列拆分。
// 原始单元格被保留，因此标准化模型无法表达的行仍可显示并按编号删除。
type ListedRule struct {
	Number  int
	To      string
	Action  string
	From    string
	Comment string
}

// Selector identifies a rule to remove: a 1-based position in the
// numbered listing, or a full rule specification.
// Selector 标识要删除的规则：编号列表中从 1 开始的位置，或完整的规则描述。
type Selector struct {
	Number int
	Rule   *rule.Rule
}

// SelectNumber selects the rule at 1-based position n.
// SelectNumber 选择位于第 n 个（从 1 开始）位置的规则。
func SelectNumber(n int) Selector {
	return Selector{Number: n}
}

// SelectRule selects the first rule equivalent to r.
// SelectRule 选择第一条与 r 等价的规则。
func SelectRule(r rule.Rule) Selector {
	return Selector{Rule: &r}
}

// Valid reports whether the selector identifies anything.
func (s Selector) Valid() bool {
	return s.Number > 0 || s.Rule != nil
}

func (s Selector) String() string {
	if s.Rule != nil {
		return s.Rule.String()
	}
	if s.Number > 0 {
		return "#" + strconv.Itoa(s.Number)
	}
	return "<empty selector>"
}

// PolicyTarget maps a model direction onto the front-end's default
// policy target name.
// PolicyTarget 将模型方向映射为前端默认策略的目标名称。
func PolicyTarget(direction rule.Direction) (string, error) {
	switch direction {
	case rule.DirectionIn:
		return "incoming", nil
	case rule.DirectionOut:
		return "outgoing", nil
	default:
		return "", fmt.Errorf("no policy target for direction %q", direction)
	}
}
