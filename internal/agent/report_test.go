package agent

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSetupError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "out")

	code := ReportSetupError(dir, CategoryInference, errors.New("no api key"), nil)
	assert.Equal(t, ExitInfrastructure, code)

	data, err := os.ReadFile(filepath.Join(dir, "error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "inference error: no api key")

	code = ReportSetupError(dir, CategoryGrammar, errors.New("second"), nil)
	assert.Equal(t, ExitActionFailure, code)
	again, err := os.ReadFile(filepath.Join(dir, "error.json"))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}
