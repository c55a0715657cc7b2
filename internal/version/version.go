// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/faqindex/internal/version.Version=v1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version. When ldflags were not
// used, the module version recorded by the Go toolchain is used instead.
func String() string {
	v := Version
	if v == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("faqindex %s (commit %s, built %s)", v, GitCommit, BuildTime)
}
