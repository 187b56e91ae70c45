package cli

import (
	"testing"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("NewRootCommand should return a command")
	}
	if cmd.Use != "cytodyn" {
		t.Errorf("expected Use='cytodyn', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}
	if cmd.Long == "" {
		t.Error("Long should not be empty")
	}
}

func TestNewRootCommand_SubcommandRegistration(t *testing.T) {
	cmd := NewRootCommand()
	subs := cmd.Commands()

	subNames := make(map[string]bool)
	for _, sub := range subs {
		subNames[sub.Name()] = true
	}
	for _, name := range []string{"serve", "simulate", "cell-lines", "version"} {
		if !subNames[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("config flag should exist")
	}
	if cmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("log-level flag should exist")
	}
}
