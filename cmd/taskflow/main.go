package main

import (
	"context"
	"os"

	"github.com/fastygo/taskflow/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), cli.Options{}, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
