// Command vm8run loads a binary program image and executes it on the
// 8-bit virtual machine, optionally tracing each instruction to stderr
// and optionally serving its terminal over a TCP connection instead of
// the process's own stdio.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/bytevm/vm8/pkg/cpu"
	"github.com/bytevm/vm8/pkg/isa"
	"github.com/bytevm/vm8/pkg/terminal"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		filename string
		verbose  bool
		step     bool
		remote   string
		ramSize  int
	)
	cmd := &cobra.Command{
		Use:   "vm8run",
		Short: "Run an 8-bit VM program image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return fmt.Errorf("vm8run: -f is required")
			}
			program, err := os.ReadFile(filename)
			if err != nil {
				return err
			}

			term, closeTerm, err := openTerminal(remote)
			if err != nil {
				return err
			}
			defer closeTerm()

			c := cpu.New(make([]byte, ramSize), term, step)
			if verbose || step {
				c.SetTrace(traceFunc(c, verbose, step))
			}
			return c.Run(program)
		},
	}
	cmd.Flags().StringVarP(&filename, "file", "f", "", "program image to run")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every instruction to stderr")
	cmd.Flags().BoolVarP(&step, "debug", "d", false, "pause for input before each instruction")
	cmd.Flags().StringVar(&remote, "remote", "", "serve the terminal on this TCP address instead of stdio")
	cmd.Flags().IntVar(&ramSize, "ram", 256, "RAM size in bytes")
	return cmd
}

func openTerminal(remote string) (terminal.Terminal, func(), error) {
	if remote == "" {
		return terminal.NewStdio(), func() {}, nil
	}
	rt, err := terminal.AcceptRemote(remote)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("vm8run: serving terminal on %s", rt.LocalAddr())
	return rt, func() { rt.Close() }, nil
}

// traceFunc only has the opcode byte to go on, not its operands (the
// handler hasn't fetched them yet), so it prints the mnemonic alone
// rather than a full decoded line.
func traceFunc(c *cpu.CPU, verbose, step bool) func(pc byte, opcode byte) {
	return func(pc byte, opcode byte) {
		if verbose {
			mnemonic := fmt.Sprintf("0x%02X", opcode)
			if spec, ok := isa.Lookup(opcode); ok {
				mnemonic = spec.Mnemonic
			}
			fmt.Fprintf(os.Stderr, "vm8run: pc=0x%02X %-5s R0=0x%02X R1=0x%02X SP=0x%02X FR=0x%02X\n",
				pc, mnemonic, c.Reg(isa.R0), c.Reg(isa.R1), c.Reg(isa.RegSP), c.Reg(isa.RegFR))
		}
		if step {
			fmt.Fprint(os.Stderr, "vm8run: paused, press enter to continue...")
			fmt.Scanln()
		}
	}
}
