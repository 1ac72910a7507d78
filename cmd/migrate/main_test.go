package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersGooseVerbs(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"up", "down", "status", "version"} {
		cmd, _, err := root.Find([]string{name})
		assert.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestGooseCommandRejectsArgs(t *testing.T) {
	cmd := gooseCmd("up", "apply")
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}
