// Package main is the entry point for the ledgerctl admin CLI.
package main

import (
	"os"

	"github.com/SscSPs/shop_finance_ledger/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
