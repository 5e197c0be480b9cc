package credential

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jxo-me/dduckdns/core/credential"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/pkg/errors"
)

const (
	Code = "command"

	stderrTailSize = 512
)

// Command 通过外部命令获取 token, 例如 pass show duckdns
type Command struct {
	argv   []string
	logger logger.ILogger
}

var _ credential.ITokenSource = (*Command)(nil)

func NewCommand(argv []string, log logger.ILogger) *Command {
	return &Command{
		argv:   argv,
		logger: log,
	}
}

func (c *Command) String() string {
	return Code
}

// Token runs the command once with no standard input and returns its
// trimmed standard output. The child is killed when ctx is done.
func (c *Command) Token(ctx context.Context) (string, error) {
	if len(c.argv) == 0 || strings.TrimSpace(c.argv[0]) == "" {
		return "", &credential.Error{Reason: "is empty"}
	}
	name := c.argv[0]

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, c.argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debugf("running credential command %q", name)
	if err := cmd.Run(); err != nil {
		reason := "could not be started"
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			reason = fmt.Sprintf("exited with status %d", exitErr.ExitCode())
			err = nil
		}
		return "", &credential.Error{
			Command: name,
			Reason:  reason,
			Stderr:  tail(stderr.String()),
			Err:     err,
		}
	}

	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return "", &credential.Error{
			Command: name,
			Reason:  "printed nothing",
			Stderr:  tail(stderr.String()),
		}
	}
	return token, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailSize {
		s = s[len(s)-stderrTailSize:]
	}
	return s
}
