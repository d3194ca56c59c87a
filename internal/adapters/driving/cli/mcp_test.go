package cli

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestMCPCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range mcpCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")

	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServe_RequiresFusionService(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "mcp", "serve", "--port", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fusion service not configured")
}

func TestMCPServe_HTTPStopsWithContext(t *testing.T) {
	setupTestServices(t)
	port := freePort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out := new(bytes.Buffer)
	err := executeWithContext(t, ctx, out, "mcp", "serve", "--port", strconv.Itoa(port))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "MCP server listening on http://localhost:"+strconv.Itoa(port))
}
