package main

import (
	"fmt"
	"os"

	"github.com/arlogriffin/scribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scribe:", err)
		os.Exit(1)
	}
}
