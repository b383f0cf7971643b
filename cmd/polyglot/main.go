package main

import (
	"os"

	"github.com/FxEmbed/polyglot/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
