package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// 编译时通过 -ldflags "-X" 注入
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(versionCmd)
}

// commit 未注入时从构建信息中读取vcs.revision
func commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "author-blog %s\n", Version)
	fmt.Fprintf(w, "Git提交: %s\n", commit())
	fmt.Fprintf(w, "构建时间: %s\n", BuildTime)
	fmt.Fprintf(w, "Go版本: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
