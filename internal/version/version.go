// Package version holds build version information injected at link time.
// Package version 保存在链接时注入的构建版本信息。
package version

// Version is set via -ldflags "-X github.com/ufwctl/ufwctl/internal/version.Version=v1.2.3".
// Version 通过 -ldflags 注入，默认为 dev。
var Version = "dev"
