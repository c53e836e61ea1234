package main

import (
	"os"

	"github.com/travis-tran03/leetcode-jar/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
