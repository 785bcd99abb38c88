package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// MockDriver is an in-memory Driver for tests and dry runs. It records
// every call in order and serves its rule slice as the live set.
// MockDriver 是用于测试和试运行的内存 Driver。
// 它按顺序记录每次调用，并以其规则切片作为在线规则集。
type MockDriver struct {
	ActiveState bool
	DefaultIn   rule.Action
	DefaultOut  rule.Action
	Rules       rule.RuleSet
	VersionText string

	// Calls records every operation in invocation order, rendered as
	// "reset", "apply allow in 22/tcp", "enable", ...
	Calls []string

	// Failure injection
	ResetErr     error
	EnableErr    error
	ListErr      error
	ListAddedErr error
	ApplyErr     map[string]error
}

func NewMockDriver() *MockDriver {
	return &MockDriver{
		DefaultIn:   rule.ActionAllow,
		DefaultOut:  rule.ActionAllow,
		VersionText: "0.36.2",
		ApplyErr:    make(map[string]error),
	}
}

func (m *MockDriver) record(format string, args ...interface{}) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockDriver) Reset(ctx context.Context) error {
	m.record("reset")
	if m.ResetErr != nil {
		return m.ResetErr
	}
	m.Rules = nil
	m.ActiveState = false
	m.DefaultIn = rule.ActionAllow
	m.DefaultOut = rule.ActionAllow
	return nil
}

func (m *MockDriver) Enable(ctx context.Context) error {
	m.record("enable")
	if m.EnableErr != nil {
		return m.EnableErr
	}
	m.ActiveState = true
	return nil
}

func (m *MockDriver) Disable(ctx context.Context) error {
	m.record("disable")
	m.ActiveState = false
	return nil
}

func (m *MockDriver) Reload(ctx context.Context) error {
	m.record("reload")
	return nil
}

func (m *MockDriver) SetDefaultPolicy(ctx context.Context, direction rule.Direction, policy rule.Action) error {
	m.record("default %s %s", policy, direction)
	switch direction {
	case rule.DirectionIn:
		m.DefaultIn = policy
	case rule.DirectionOut:
		m.DefaultOut = policy
	}
	return nil
}

func (m *MockDriver) Apply(ctx context.Context, r rule.Rule) error {
	m.record("apply %s", r)
	if err := m.ApplyErr[r.String()]; err != nil {
		return err
	}
	m.Rules = append(m.Rules, r)
	return nil
}

func (m *MockDriver) Remove(ctx context.Context, sel Selector) error {
	m.record("remove %s", sel)
	switch {
	case sel.Number > 0:
		i := sel.Number - 1
		if i >= len(m.Rules) {
			return errors.NewNotFoundError(sel.String())
		}
		m.Rules = append(m.Rules[:i:i], m.Rules[i+1:]...)
		return nil
	case sel.Rule != nil:
		i := m.Rules.IndexOf(*sel.Rule)
		if i < 0 {
			return errors.NewNotFoundError(sel.String())
		}
		m.Rules = append(m.Rules[:i:i], m.Rules[i+1:]...)
		return nil
	default:
		return errors.NewNotFoundError(sel.String())
	}
}

// List mirrors the front-end's status listing: while the firewall is
// inactive nothing is listed, no matter what has been applied.
// List 模拟前端的状态列表：防火墙未激活时不列出任何内容，无论已应用什么。
func (m *MockDriver) List(ctx context.Context) (rule.RuleSet, error) {
	m.record("list")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if !m.ActiveState {
		return rule.RuleSet{}, nil
	}
	out := make(rule.RuleSet, len(m.Rules))
	copy(out, m.Rules)
	return out, nil
}

// ListAdded serves the recorded rules regardless of the active state,
// the way the front-end's `show added` does.
// ListAdded 无论激活状态如何都返回已记录的规则，与前端的 `show added` 一致。
func (m *MockDriver) ListAdded(ctx context.Context) (rule.RuleSet, error) {
	m.record("show added")
	if m.ListAddedErr != nil {
		return nil, m.ListAddedErr
	}
	out := make(rule.RuleSet, len(m.Rules))
	copy(out, m.Rules)
	return out, nil
}

func (m *MockDriver) Status(ctx context.Context) (*Status, error) {
	m.record("status")
	st := &Status{
		Active:  m.ActiveState,
		Default: fmt.Sprintf("%s (incoming), %s (outgoing)", m.DefaultIn, m.DefaultOut),
	}
	for i, r := range m.Rules {
		st.Rules = append(st.Rules, listedFromRule(i+1, r))
	}
	return st, nil
}

func (m *MockDriver) Version(ctx context.Context) (string, error) {
	m.record("version")
	return m.VersionText, nil
}

// listedFromRule renders r the way the front-end's numbered listing
// would, so display code sees realistic cells.
func listedFromRule(n int, r rule.Rule) ListedRule {
	to := r.Port
	if r.Protocol != rule.ProtocolAny && to != "" {
		to += "/" + string(r.Protocol)
	}
	if r.To != "" {
		if to != "" {
			to = r.To + " " + to
		} else {
			to = r.To
		}
	}
	if to == "" {
		to = "Anywhere"
	}
	from := r.From
	if from == "" {
		from = "Anywhere"
	}
	return ListedRule{
		Number:  n,
		To:      to,
		Action:  strings.ToUpper(string(r.Action) + " " + string(r.Direction)),
		From:    from,
		Comment: r.Comment,
	}
}
