package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/vsme-emissions/internal/cli"
)

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version)

	assert.Equal(t, "vsme-emissions", root.Use)
	assert.Equal(t, "dev", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"scope1", "scope2", "scope3", "vehicle", "factors", "units", "serve"})
}
