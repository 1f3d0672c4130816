package main

import "biblioteca/cli"

func main() {
	cli.Execute()
}
