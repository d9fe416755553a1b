package main

import "github.com/torusgame/sgbuild/cmd"

func main() {
	cmd.Execute()
}
