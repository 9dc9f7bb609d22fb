package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/expr"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const helloHex = "486902100103" + "21"

func TestCommands(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		out, err := run(t, "version")
		require.NoError(t, err)
		require.EqualValues(t, "sestring dev\n", out)
	})
	t.Run("decode", func(t *testing.T) {
		out, err := run(t, "decode", helloHex)
		require.NoError(t, err)
		t.Logf("\n%s", out)
		require.Contains(t, out, "macro")
		require.Contains(t, out, "digest: ")

		_, err = run(t, "decode", "zz")
		require.Error(t, err)
		_, err = run(t, "decode", "4802")
		require.ErrorIs(t, err, sestring.ErrUnexpectedEndOfStream)
	})
	t.Run("resolve", func(t *testing.T) {
		s := sestring.NewBuilder().
			Macro(sestring.MustNewArgsMacro(sestring.CodeIf, expr.LocalNumber(1), expr.LocalText(2), expr.String("nobody"))).
			Build()
		sheet := sestring.NewBuilder().
			Macro(sestring.MustNewArgsMacro(sestring.CodeSheet, expr.String("Addon"), expr.Integer(100))).
			Text(", ").
			Macro(sestring.MustNewParamMacro(sestring.CodeString, expr.GlobalText(1))).
			Build()
		out, err := run(t, "resolve", hex.EncodeToString(s.Bytes()), hex.EncodeToString(sheet.Bytes()),
			"--config", "testdata/config.yaml", "--param", "1", "--param", "Alphinaud")
		require.NoError(t, err)
		require.EqualValues(t, "Alphinaud\nHello, Gridania\n", out)

		_, err = run(t, "resolve", helloHex, "4802")
		require.ErrorIs(t, err, sestring.ErrUnexpectedEndOfStream)
	})
	t.Run("check", func(t *testing.T) {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.txt")
		require.NoError(t, os.WriteFile(good, []byte("# strings\n"+helloHex+"\n\n48027f0103\n"), 0o644))
		out, err := run(t, "check", good)
		require.NoError(t, err)
		require.EqualValues(t, 2, strings.Count(out, "round trip: true"))

		bad := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(bad, []byte(helloHex+"\n4802\n"), 0o644))
		out, err = run(t, "check", bad, "--metrics")
		require.Error(t, err)
		require.Contains(t, out, "round trip: false")
		require.Contains(t, out, "sestring_errors_total{stage=decoder} 1")
		require.Contains(t, out, "sestring_payloads_total{type=macro} 1")

		_, err = run(t, "check", filepath.Join(dir, "missing.txt"))
		require.Error(t, err)
	})
}
