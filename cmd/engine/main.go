package main

import (
	"github.com/trollsnake/engine/cmd/engine/commands"
)

func main() {
	commands.Execute()
}
