// Command archguard checks that modules keep their layers apart: domain code
// imports nothing from services, presentation or infrastructure, and modules
// only reach into each other through the shared ones.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("archguard", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", ".archguard.yml", "path to the layer rules")
	debug := fs.Bool("debug", false, "print go-cleanarch traces")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rules, err := loadRules(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "读取配置失败: %v\n", err)
		return 2
	}
	if *debug {
		cleanarch.Log.SetOutput(errOut)
	}

	violations, err := rules.check()
	if err != nil {
		fmt.Fprintf(errOut, "分层检查失败: %v\n", err)
		return 1
	}
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(out, v)
		}
		fmt.Fprintf(out, "发现 %d 处分层违规\n", len(violations))
		return 1
	}
	fmt.Fprintln(out, "分层检查通过")
	return 0
}
