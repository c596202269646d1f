package main

import "github.com/nhoffman/bioscons/cmd"

func main() {
	cmd.Execute()
}
