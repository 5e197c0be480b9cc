package credential

import (
	"context"
	"testing"

	"github.com/jxo-me/dduckdns/core/credential"
	xlogger "github.com/jxo-me/dduckdns/sdk/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandToken(t *testing.T) {
	token, err := NewCommand([]string{"echo", "tok123"}, xlogger.Nop()).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestCommandTrimsWhitespace(t *testing.T) {
	token, err := NewCommand([]string{"printf", "  tok123 \n\n"}, xlogger.Nop()).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestCommandFailures(t *testing.T) {
	cases := []struct {
		name   string
		argv   []string
		reason string
	}{
		{"non-zero exit", []string{"sh", "-c", "echo locked >&2; exit 1"}, "exited with status 1"},
		{"empty output", []string{"sh", "-c", "echo '   '"}, "printed nothing"},
		{"missing binary", []string{"dduckdns-no-such-binary"}, "could not be started"},
		{"empty command", nil, "is empty"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			token, err := NewCommand(c.argv, xlogger.Nop()).Token(context.Background())
			assert.Empty(t, token)

			var credErr *credential.Error
			require.True(t, errors.As(err, &credErr), "got %v", err)
			assert.Equal(t, c.reason, credErr.Reason)
		})
	}
}

func TestCommandErrorCarriesStderr(t *testing.T) {
	_, err := NewCommand([]string{"sh", "-c", "echo 'gpg: decryption failed' >&2; exit 2"}, xlogger.Nop()).
		Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpg: decryption failed")
	assert.Contains(t, err.Error(), "exited with status 2")
}

func TestCommandCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCommand([]string{"sleep", "5"}, xlogger.Nop()).Token(ctx)
	assert.Error(t, err)
}
