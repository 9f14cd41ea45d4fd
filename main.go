package main

import (
	"github.com/markusressel/rpifanctl/cmd"
)

func main() {
	cmd.Execute()
}
