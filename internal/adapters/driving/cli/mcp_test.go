package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krlabs/kra/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	_, err := execute(t, &Services{}, "mcp", "serve")
	assert.ErrorIs(t, err, mcp.ErrMissingValidateService)
}
