package main

import "github.com/grove-dev/grove/internal/cli"

func main() {
	cli.Execute()
}
