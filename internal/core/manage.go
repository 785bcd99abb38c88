package core

import (
	"context"

	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/filter"
	"github.com/ufwctl/ufwctl/internal/metrics"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
	"github.com/ufwctl/ufwctl/pkg/errors"
	"github.com/ufwctl/ufwctl/pkg/storage"
)

// ImportOptions controls a batch import run.
// ImportOptions 控制批量导入运行。
type ImportOptions struct {
	// Parse and report without touching the firewall.
	// 仅解析并报告，不触碰防火墙。
	DryRun bool
	// Snapshot the live rule set into the backup directory before applying.
	// 应用之前将现行规则集快照到备份目录。
	Backup bool
}

// ImportOutcome records one rule's apply attempt during a batch import.
// ImportOutcome 记录批量导入中单条规则的应用结果。
type ImportOutcome struct {
	Rule    rule.Rule
	Err     error
	Skipped bool // not attempted because the batch aborted / 批次中止后未尝试
}

// ImportReport summarizes a batch import. Per-rule failures live in
// Outcomes; Aborted is set only when a fatal driver error stopped the batch.
// ImportReport 汇总批量导入。单条规则的失败记录在 Outcomes 中；
// 只有致命的驱动错误中止批次时才设置 Aborted。
type ImportReport struct {
	Source     string
	BackupPath string
	DryRun     bool
	Outcomes   []ImportOutcome
	Aborted    error
}

// Succeeded counts the rules applied without error.
// Succeeded 统计成功应用的规则数。
func (r *ImportReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && !o.Skipped {
			n++
		}
	}
	return n
}

// Failed counts the rules whose apply attempt errored.
// Failed 统计应用失败的规则数。
func (r *ImportReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

/**
 * ExportRules lists the live rules, optionally filters them, and writes the
 * canonical document to path. The exported set is returned for display.
 * ExportRules 列出现行规则，可选过滤后将规范化文档写入 path。
 * 返回导出的集合用于显示。
 */
func ExportRules(ctx context.Context, drv driver.Driver, store storage.Store, path string, flt *filter.Filter) (rule.RuleSet, error) {
	log := logger.Get(ctx)

	rules, err := drv.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetRuleGauges(rules)

	if flt != nil {
		rules, err = flt.Apply(rules)
		if err != nil {
			return nil, err
		}
	}

	canonical := rules.Canonicalize()
	if err := store.Export(canonical, path); err != nil {
		return nil, err
	}
	log.Infof("📤 Exported %d rules to %s", len(canonical), path)
	return canonical, nil
}

/**
 * ImportRules parses the document at path and applies each rule to the live
 * firewall, continuing past per-rule failures so one bad entry cannot block
 * the rest. A snapshot of the live set is written first when opts.Backup is
 * set. Fatal driver errors (missing privilege, missing utility, canceled
 * context) abort the remaining batch; the report still lists every entry.
 * ImportRules 解析 path 处的文档并将每条规则应用到现行防火墙，
 * 单条失败不阻塞其余规则。opts.Backup 设置时先写出现行规则集快照。
 * 致命的驱动错误（缺少权限、缺少工具、上下文取消）会中止剩余批次；
 * 报告仍会列出每个条目。
 */
func ImportRules(ctx context.Context, drv driver.Driver, store storage.Store, path string, opts ImportOptions) (*ImportReport, error) {
	log := logger.Get(ctx)

	rules, err := store.Import(path)
	if err != nil {
		return nil, err
	}
	report := &ImportReport{Source: path, DryRun: opts.DryRun}

	if opts.DryRun {
		for _, r := range rules {
			report.Outcomes = append(report.Outcomes, ImportOutcome{Rule: r})
		}
		log.Infof("ℹ️  Dry run: %d rules parsed from %s, none applied", len(rules), path)
		return report, nil
	}

	if opts.Backup {
		live, err := drv.List(ctx)
		if err != nil {
			return nil, err
		}
		backupPath, err := store.Backup(live)
		if err != nil {
			return nil, err
		}
		report.BackupPath = backupPath
		log.Infof("💾 Backed up %d live rules to %s", len(live), backupPath)
	}

	for i, r := range rules {
		if report.Aborted != nil {
			report.Outcomes = append(report.Outcomes, ImportOutcome{Rule: r, Skipped: true})
			continue
		}
		err := drv.Apply(ctx, r)
		report.Outcomes = append(report.Outcomes, ImportOutcome{Rule: r, Err: err})
		if err == nil {
			continue
		}
		log.Warnf("⚠️  Rule %d/%d failed: %v", i+1, len(rules), err)
		if isFatalApplyError(ctx, err) {
			report.Aborted = err
		}
	}

	metrics.SetApplyResults(report.Succeeded(), report.Failed())
	log.Infof("📥 Import from %s: %d applied, %d failed", path, report.Succeeded(), report.Failed())
	return report, nil
}

/**
 * OrganizeDocument rewrites the document at path in canonical order.
 * OrganizeDocument 将 path 处的文档按规范顺序重写。
 */
func OrganizeDocument(ctx context.Context, store storage.Store, path string) error {
	log := logger.Get(ctx)
	if err := store.Organize(path); err != nil {
		return err
	}
	log.Infof("🗂️ Organized rule document %s", path)
	return nil
}

// isFatalApplyError reports whether an apply failure cannot improve for the
// remaining rules of a batch.
// isFatalApplyError 判断应用失败对批次中剩余规则是否同样无法恢复。
func isFatalApplyError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, errors.ErrPermissionDenied) || errors.Is(err, errors.ErrDriverUnavailable)
}
