// Package firewall implements the host firewall adapter contract: given a
// source identifier and an add/remove intent, it installs or removes an
// OS-level packet-drop rule.
package firewall

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aryorithm/blackbox/internal/logging"
)

// shellMetacharacters are rejected in source identifiers to prevent
// command injection through the underlying shell invocation.
const shellMetacharacters = " ;|&$()<>`\\\"'\n\t\r"

// Adapter issues iptables-style packet-drop rules via an external command.
type Adapter struct {
	command string
	log     *logging.Logger
}

// New creates an Adapter that shells out to command for add/remove
// operations. command is expected to accept "add <source>" or
// "remove <source>" arguments (a thin wrapper script around iptables in
// production, a no-op stub in tests).
func New(command string, log *logging.Logger) *Adapter {
	return &Adapter{command: command, log: log}
}

// ValidateSource rejects identifiers containing whitespace or
// shell-metacharacters.
func ValidateSource(source string) error {
	if source == "" {
		return fmt.Errorf("firewall: empty source identifier")
	}
	if strings.ContainsAny(source, shellMetacharacters) {
		return fmt.Errorf("firewall: source identifier %q contains disallowed characters", source)
	}
	return nil
}

// Block installs a packet-drop rule for source. A non-zero exit is logged
// as a warning but does not return an error — the caller's in-memory
// block-list state stays consistent with intent regardless of whether the
// underlying OS command actually succeeded.
func (a *Adapter) Block(ctx context.Context, source string) error {
	return a.run(ctx, "add", source)
}

// Unblock removes the packet-drop rule for source. Removing a rule that
// does not exist is benign and only logged.
func (a *Adapter) Unblock(ctx context.Context, source string) error {
	return a.run(ctx, "remove", source)
}

func (a *Adapter) run(ctx context.Context, action, source string) error {
	if err := ValidateSource(source); err != nil {
		if a.log != nil {
			a.log.ErrorContext(ctx, "firewall: rejected source identifier", logging.Error(err), logging.Source(source))
		}
		return err
	}

	cmd := exec.CommandContext(ctx, a.command, action, source)
	if err := cmd.Run(); err != nil {
		if a.log != nil {
			a.log.WarnContext(ctx, "firewall: command returned non-zero exit code",
				logging.Source(source), logging.Error(err))
		}
		return nil
	}
	return nil
}
