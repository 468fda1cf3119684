package main

import "github.com/solacehq/solace/internal/cli"

func main() {
	cli.Execute()
}
