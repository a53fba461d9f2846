package main

import "tag-engine/internal/cli"

func main() {
	cli.Execute()
}
