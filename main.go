package main

import (
	"github.com/ai-agents-2030/AppAgent/cmd"
	_ "github.com/ai-agents-2030/AppAgent/internal/platform/android"
)

func main() {
	cmd.Execute()
}
