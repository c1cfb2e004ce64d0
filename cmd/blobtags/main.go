package main

import "github.com/mvp-joe/blobtags/internal/cli"

func main() {
	cli.Execute()
}
