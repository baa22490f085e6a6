package cmdline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/cmdline"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := cmdline.DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := cmdline.DefaultConfig()
	cfg.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := cmdline.DefaultConfig()
	cfg.LogLevel = "loud"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsAuthWithoutPassword(t *testing.T) {
	cfg := cmdline.DefaultConfig()
	cfg.RequireAuth = true
	cfg.Password = ""
	require.Error(t, cfg.Validate())
}

func TestResolvedAddrPrefersExplicitAddr(t *testing.T) {
	cfg := cmdline.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 6379
	require.Equal(t, "127.0.0.1:6379", cfg.ResolvedAddr())

	cfg.Addr = "0.0.0.0:7000"
	require.Equal(t, "0.0.0.0:7000", cfg.ResolvedAddr())
}
