package main

import "github.com/varontron/mutation-mapper/internal/cli"

func main() {
	cli.Execute()
}
