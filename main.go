package main

import "tubesort/cmd"

func main() {
	cmd.Execute()
}
