// main is the entry point for the farewatch CLI.
package main

import (
	"github.com/farewatch/farewatch/cmd"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/iocache"
)

func main() {
	cmd.SetHistoryManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("farewatch", err)
	}
}
