package main

import "github.com/qobs-build/qtvendor/cmd"

func main() {
	cmd.Execute()
}
