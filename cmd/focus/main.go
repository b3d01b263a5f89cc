package main

import (
	"os"

	"github.com/andromeda/focus/app"
	"github.com/andromeda/focus/report"
)

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	if err := run(os.Args); err != nil {
		report.Quit(err)
	}
}
