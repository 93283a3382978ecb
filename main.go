package main

import "github.com/philipparndt/parambatch/internal/cmd"

func main() {
	cmd.Parse()
}
