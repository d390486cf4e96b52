package main

import "github.com/agencyhq/go-agency-ledger/cmd/worker/cmd"

func main() {
	cmd.Execute()
}
