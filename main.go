// main is the entry point for the dashline CLI.
package main

import (
	"os"

	"github.com/huangsam/dashline/cmd"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogWarn("Command failed", err)
		iocache.CloseStores()
		os.Exit(1)
	}
}
