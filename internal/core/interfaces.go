package core

import (
	"context"
)

// PortDetector resolves the operator's administrative access port.
// guard.Detector is the production implementation.
// PortDetector 解析操作员的管理访问端口。guard.Detector 是生产实现。
type PortDetector interface {
	DetectAccessPort(ctx context.Context) (uint16, error)
}

// StaticPort is a PortDetector that always reports a fixed port. It backs
// the --port override, where the operator already knows the access port.
// StaticPort 是始终报告固定端口的 PortDetector。
// 用于 --port 覆盖场景，此时操作员已明确知道访问端口。
type StaticPort uint16

// DetectAccessPort returns the fixed port.
// DetectAccessPort 返回固定端口。
func (p StaticPort) DetectAccessPort(context.Context) (uint16, error) {
	return uint16(p), nil
}
