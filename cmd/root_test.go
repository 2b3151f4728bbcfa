package cmd

import (
	"errors"
	"fmt"
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"run", "read", "screenshot", "serve", "devices", "version"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "format", "pretty"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q not found", name)
		}
	}
}

func TestExitError(t *testing.T) {
	err := fmt.Errorf("run: %w", &exitError{code: 4})

	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatal("wrapped exitError not found")
	}
	if ee.code != 4 {
		t.Errorf("code = %d, want 4", ee.code)
	}
	if ee.Error() != "exit status 4" {
		t.Errorf("Error() = %q", ee.Error())
	}
}
