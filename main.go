package main

import "github.com/icco/drumseq/cmd"

func main() {
	cmd.Execute()
}
