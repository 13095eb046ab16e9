package main

import "textpatch/internal/cli"

func main() {
	cli.Execute()
}
