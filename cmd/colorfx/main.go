package main

import "github.com/MeKo-Tech/colorfx/internal/cmd"

func main() {
	cmd.Execute()
}
