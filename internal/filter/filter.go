// Package filter compiles operator-supplied expressions that select rules,
// e.g. `action == "allow" && port == "22"`.
// filter 包编译操作员提供的规则筛选表达式，
// 例如 `action == "allow" && port == "22"`。
package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// Env exposes one rule's fields to a filter expression.
// Env 将单条规则的字段暴露给筛选表达式。
type Env struct {
	Action    string `expr:"action"`
	Direction string `expr:"direction"`
	Protocol  string `expr:"protocol"`
	Port      string `expr:"port"`
	From      string `expr:"from"`
	To        string `expr:"to"`
	Comment   string `expr:"comment"`
}

// Filter is a compiled rule filter expression.
// Filter 是编译后的规则筛选表达式。
type Filter struct {
	src     string
	program *vm.Program
}

/**
 * Compile builds a filter from an expression source. The expression is
 * evaluated against one rule at a time and must yield a boolean.
 * Compile 从表达式源构建筛选器。表达式逐条对规则求值且必须产生布尔值。
 */
func Compile(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.Env(Env{}))
	if err != nil {
		return nil, errors.NewFilterError(src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// Match evaluates the filter against one rule.
// Match 对单条规则求值。
func (f *Filter) Match(r rule.Rule) (bool, error) {
	output, err := expr.Run(f.program, envFor(r))
	if err != nil {
		return false, errors.NewFilterError(f.src, err)
	}
	matched, ok := output.(bool)
	if !ok {
		return false, errors.NewFilterError(f.src, fmt.Errorf("expression yields %T, want bool", output))
	}
	return matched, nil
}

// Apply returns the rules the filter keeps, preserving order.
// Apply 返回筛选器保留的规则，保持原有顺序。
func (f *Filter) Apply(rules rule.RuleSet) (rule.RuleSet, error) {
	out := make(rule.RuleSet, 0, len(rules))
	for _, r := range rules {
		matched, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, r)
		}
	}
	return out, nil
}

// String returns the original expression source.
// String 返回原始表达式源。
func (f *Filter) String() string {
	return f.src
}

func envFor(r rule.Rule) Env {
	return Env{
		Action:    string(r.Action),
		Direction: string(r.Direction),
		Protocol:  string(r.Protocol),
		Port:      r.Port,
		From:      r.From,
		To:        r.To,
		Comment:   r.Comment,
	}
}
