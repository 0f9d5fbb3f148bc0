// Package main is the entry point for etldl.
package main

import (
	"github.com/etldl/etldl/cmd"
	"github.com/etldl/etldl/config"
	"github.com/etldl/etldl/log"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

func main() {
	// credentials may live in a .env next to the downloads; a missing file is fine
	_ = godotenv.Load()

	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
