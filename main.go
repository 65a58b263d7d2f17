// main is the entry point for the workload CLI.
package main

import (
	"github.com/huangsam/workload/cmd"
	"github.com/huangsam/workload/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
