package main

import "github.com/Hotate516/kiga-workspace/cmd/kiga-cli/cmd"

func main() {
	cmd.Execute()
}
