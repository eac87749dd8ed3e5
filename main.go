package main

import (
	"github.com/provtools/prov/cmd"
)

func main() {
	cmd.Execute()
}
