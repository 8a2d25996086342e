package main

import "github.com/atikulmunna/agentlog/internal/cmd"

func main() {
	cmd.Execute()
}
