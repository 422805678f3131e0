// Package main is the entry point of the paddock CLI.
package main

import (
	"github.com/huangsam/paddock/cmd"
	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("paddock failed", err)
	}
}
