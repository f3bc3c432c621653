package main

import (
	"fmt"
	"os"

	"github.com/nhle/todolist/internal/cli"
	"github.com/nhle/todolist/internal/theme"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("error:"), err)
		os.Exit(1)
	}
}
