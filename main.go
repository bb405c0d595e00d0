package main

import "stockrating/cmd"

func main() {
	cmd.Execute()
}
