package main

import "merchandising-engine/internal/cmd"

func main() {
	cmd.Execute()
}
