package main

import "github.com/memeforge/memeforge/cmd"

func main() {
	cmd.Execute()
}
