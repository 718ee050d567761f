package main

import (
	"bnfm/cmd"
)

func main() {
	cmd.Execute()
}
