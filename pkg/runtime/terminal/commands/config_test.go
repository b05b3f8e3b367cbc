package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness()

		require.NoError(t, h.run(NewConfigCmd(h.deps), "list"))

		out := h.out.String()
		assert.True(t, strings.HasPrefix(out, "Setting: globals\n    globals.estimator = median\n"))
		assert.Contains(t, out, "    graph.delay.quant = 300\n")
	})

	t.Run("set", func(t *testing.T) {
		h := newHarness()

		require.NoError(t, h.run(NewConfigCmd(h.deps), "set", "graph.delay.quant", "600"))

		assert.Contains(t, h.out.String(), "Section: graph.delay, Option: quant, Value: 600")
		quant, err := h.deps.Settings.Store().GetInt("graph.delay", "quant")
		require.NoError(t, err)
		assert.Equal(t, 600, quant)
	})

	t.Run("set rejects unknown section", func(t *testing.T) {
		h := newHarness()

		err := h.run(NewConfigCmd(h.deps), "set", "graphs.quant", "600")

		assert.ErrorContains(t, err, "'graphs.quant' is not a valid settings key")
	})

	t.Run("set rejects key without section", func(t *testing.T) {
		h := newHarness()

		err := h.run(NewConfigCmd(h.deps), "set", "quant", "600")

		assert.ErrorContains(t, err, "not a valid settings key")
	})

	t.Run("restore asks first", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.deps.Settings.Store().Set("globals", "estimator", "mean"))
		cmd := NewConfigCmd(h.deps)
		cmd.SetIn(strings.NewReader("n\n"))

		require.NoError(t, h.run(cmd, "restore"))

		assert.Contains(t, h.out.String(), "Phew! Nothing changed.")
		est, _ := h.deps.Settings.Store().GetString("globals", "estimator")
		assert.Equal(t, "mean", est)
	})

	t.Run("restore confirmed", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.deps.Settings.Store().Set("globals", "estimator", "mean"))
		cmd := NewConfigCmd(h.deps)
		cmd.SetIn(strings.NewReader("y\n"))

		require.NoError(t, h.run(cmd, "restore"))

		assert.Contains(t, h.out.String(), "Settings have been restored to original values")
		est, _ := h.deps.Settings.Store().GetString("globals", "estimator")
		assert.Equal(t, "median", est)
	})

	t.Run("restore with --yes", func(t *testing.T) {
		h := newHarness()

		require.NoError(t, h.run(NewConfigCmd(h.deps), "restore", "--yes"))

		assert.NotContains(t, h.out.String(), "[yN]")
	})
}
