package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/model"
)

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(`Partner ADD retailer name:"Sharma General Store" territory_id:4`)
	require.NoError(t, err)
	assert.Equal(t, "partner", cmd.Scope)
	assert.Equal(t, "add", cmd.Operation)
	assert.Equal(t, []string{"retailer", "name:Sharma General Store", "territory_id:4"}, cmd.Args)
	assert.Equal(t, "Sharma General Store", cmd.Fields()["name"])
}

func TestParseCommandScopeOnly(t *testing.T) {
	cmd, err := ParseCommand("help")
	require.NoError(t, err)
	assert.Equal(t, model.Command{Scope: "help", Args: []string{}}, cmd)
}

func TestParseCommandErrors(t *testing.T) {
	_, err := ParseCommand("   ")
	assert.Error(t, err)
	_, err = ParseCommand(`geo add "Unclosed`)
	assert.ErrorContains(t, err, "unterminated quote")
}

func TestSplitArgs(t *testing.T) {
	args, err := SplitArgs(`geo add "" \"quoted\" a\ b`)
	require.NoError(t, err)
	assert.Equal(t, []string{"geo", "add", "", `"quoted"`, "a b"}, args)
}
