// Package dnfmodule is a thin wrapper around the dnf module subcommands.
package dnfmodule

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Operation is a dnf module operation.
type Operation string

const (
	OpEnable  Operation = "enable"
	OpDisable Operation = "disable"
	OpInstall Operation = "install"
	OpRemove  Operation = "remove"
	OpReset   Operation = "reset"
)

// Operations lists the supported dnf module operations.
var Operations = []Operation{OpEnable, OpDisable, OpInstall, OpRemove, OpReset}

// Manager runs dnf module operations on the host.
type Manager struct {
	log logrus.FieldLogger

	// command builds the dnf invocation; swapped out in tests.
	command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewManager creates a Manager.
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{log: log, command: exec.CommandContext}
}

// Run executes a dnf module operation against a module. Stream and profile
// are folded into the module spec dnf expects: name[:stream][/profile].
func (m *Manager) Run(ctx context.Context, op Operation, name, stream, profile string) error {
	if !validOperation(op) {
		return fmt.Errorf("unsupported dnf module operation %q", op)
	}
	if name == "" {
		return fmt.Errorf("a module name is required")
	}

	spec := ModuleSpec(name, stream, profile)
	cmd := m.command(ctx, "dnf", "-y", "module", string(op), spec)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	m.log.Infof("running dnf module %s %s", op, spec)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dnf module %s %s failed: %w: %s",
			op, spec, err, stderr.String())
	}
	return nil
}

// ModuleSpec builds the module spec string dnf expects.
func ModuleSpec(name, stream, profile string) string {
	spec := name
	if stream != "" {
		spec += ":" + stream
	}
	if profile != "" {
		spec += "/" + profile
	}
	return spec
}

func validOperation(op Operation) bool {
	for _, valid := range Operations {
		if op == valid {
			return true
		}
	}
	return false
}
