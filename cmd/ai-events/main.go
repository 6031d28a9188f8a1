package main

import "github.com/pfrederiksen/ai-events/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
