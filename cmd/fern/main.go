package main

import "github.com/Ramsey-B/fern/internal/cli"

func main() {
	cli.Execute()
}
