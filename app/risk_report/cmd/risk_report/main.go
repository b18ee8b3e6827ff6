package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name = "risk_report"
	// Version 是服务的版本号
	Version string

	id, _ = os.Hostname()
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
