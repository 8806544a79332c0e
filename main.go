// main is the entry point for the dmgcalc CLI.
package main

import (
	"github.com/huangsam/dmgcalc/cmd"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/iocache"
)

func main() {
	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Error", err)
	}
	iocache.CloseStores()
}
