package main

import "github.com/lidayx/lumina-sub000/internal/cmd"

func main() {
	cmd.Execute()
}
