package main

import "github.com/wofodev/meerkat/cmd"

func main() {
	cmd.Execute()
}
