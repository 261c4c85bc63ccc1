// Command vm8dis statically disassembles an 8-bit VM program image
// into assembly text, the inverse of what vm8run executes.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/bytevm/vm8/pkg/decoder"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vm8dis source.bin output.asm",
		Short: "Disassemble an 8-bit VM program image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("vm8dis: source file %s not found: %w", args[0], err)
			}
			asm, err := decoder.Decode(program)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], []byte(asm), 0o644); err != nil {
				return fmt.Errorf("vm8dis: couldn't create %s file: %w", args[1], err)
			}
			return nil
		},
	}
}
