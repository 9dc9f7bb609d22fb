package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/lunfardo314/easyfl"
	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/expr"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "Print payloads of encoded strings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			s, err := decodeHexArg(arg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, p := range s.Payloads() {
				fmt.Fprintf(out, "%3d %-5s %s\n", i, p.Type(), p)
			}
			h := s.Hash()
			fmt.Fprintf(out, "digest: %s\n", easyfl.Fmt(h[:]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func decodeHex(arg string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(arg), "0x"))
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", arg, err)
	}
	return data, nil
}

func decodeHexArg(arg string) (*sestring.SeString, error) {
	data, err := decodeHex(arg)
	if err != nil {
		return nil, err
	}
	s, err := sestring.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", easyfl.Fmt(data), err)
	}
	return s, nil
}

// parseParams turns decimal parameters into numbers, everything else into text
func parseParams(params []string) []expr.Value {
	ret := make([]expr.Value, len(params))
	for i, p := range params {
		if n, err := strconv.ParseUint(p, 10, 32); err == nil {
			ret[i] = expr.Number(uint32(n))
		} else {
			ret[i] = expr.Text(p)
		}
	}
	return ret
}
