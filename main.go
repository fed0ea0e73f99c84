package main

import "github.com/spectralworx/evidencija-radnika/cmd"

func main() {
	cmd.Execute()
}
