package main

import (
	"github.com/ValentinKolb/dCTG/cmd"
)

func main() {
	cmd.Execute()
}
