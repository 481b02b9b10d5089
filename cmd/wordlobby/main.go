package main

import "github.com/mcoot/wordlobby/internal/cli"

func main() {
	cli.Execute()
}
