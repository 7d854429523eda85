package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"graphclass/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
