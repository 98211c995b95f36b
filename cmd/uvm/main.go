// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/uvm/engine"
	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/isa"
	"github.com/ezrec/uvm/translate"
)

// sample is the reference program every build is checked against in
// --test mode.
var sample = []string{
	"load 523 7",
	"read 2 6",
	"write 1 33 2",
	"shr 2 2",
}

func assembleCmd() *cobra.Command {
	var test bool
	var listing string
	var defines []string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "asm INPUT OUTPUT",
		Short: "Assemble a source file into a binary code image",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			input, output := args[0], args[1]

			asm := &isa.Assembler{Verbose: verbose}
			for _, define := range defines {
				name, value, ok := strings.Cut(define, "=")
				if !ok {
					log.Fatalf("-D %v: expected NAME=VALUE", define)
				}
				asm.Predefine(name, value)
			}

			inf, err := os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()

			prog, err := asm.Parse(inf)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}

			img := &io.Image{Data: prog.Binary()}
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()

			err = img.Marshal(ouf)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}

			if len(listing) != 0 {
				lsf, err := os.Create(listing)
				if err != nil {
					log.Fatalf("%v: %v", listing, err)
				}
				defer lsf.Close()
				err = prog.WriteListing(lsf)
				if err != nil {
					log.Fatalf("%v: %v", listing, err)
				}
			}

			fmt.Printf("%v: %d instructions, %d bytes\n", output, len(prog.Opcodes), len(img.Data))

			if test {
				fmt.Println("listing:")
				err = prog.WriteListing(os.Stdout)
				if err != nil {
					log.Fatalf("listing: %v", err)
				}

				fmt.Println("sample:")
				sample_asm := &isa.Assembler{}
				sample_prog, err := sample_asm.Parse(strings.NewReader(strings.Join(sample, "\n")))
				if err != nil {
					log.Fatalf("sample: %v", err)
				}
				for _, op := range sample_prog.Opcodes {
					fmt.Printf("%-20s -> % x (%v)\n", strings.Join(op.Words, " "), isa.Encode(op.Instruction), isa.Fields(op.Instruction))
				}
			}
		},
	}

	cmd.Flags().BoolVar(&test, "test", false, "Print the listing and the sample program encoding")
	cmd.Flags().StringVar(&listing, "listing", "", "Write the intermediate listing to a file")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Predefine an equate, as NAME=VALUE")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return cmd
}

func runCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run BINARY DUMP START END",
		Short: "Execute a binary code image and dump data memory as CSV",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			binary, dumpfile := args[0], args[1]

			start, err := strconv.Atoi(args[2])
			if err != nil {
				log.Fatalf("%v: %v", args[2], err)
			}
			end, err := strconv.Atoi(args[3])
			if err != nil {
				log.Fatalf("%v: %v", args[3], err)
			}

			inf, err := os.Open(binary)
			if err != nil {
				log.Fatalf("%v: %v", binary, err)
			}
			defer inf.Close()

			img := &io.Image{}
			err = img.Unmarshal(inf)
			if err != nil {
				log.Fatalf("%v: %v", binary, err)
			}
			fmt.Printf("%v: %d bytes: % x\n", binary, len(img.Data), img.Data)

			// Decoded view of the image, up to the first bad record.
			prog, decode_err := isa.Disassemble(img.Data)
			if verbose {
				err = prog.WriteListing(os.Stdout)
				if err != nil {
					log.Fatalf("listing: %v", err)
				}
				if decode_err != nil {
					log.Printf("%v: %v", binary, decode_err)
				}
			}

			eng := engine.NewEngine(img.Data)
			eng.Verbose = verbose

			state, err := eng.Run()
			if err != nil {
				log.Printf("%v: %v", binary, err)
				var halt *engine.ErrHalt
				if errors.As(err, &halt) && halt.Offset > 0 {
					last := prog.Debug(halt.Offset - 1)
					if last.Opcode != nil {
						log.Printf("%v: last instruction at offset %d: %v", binary, last.Offset, last.Instruction)
					}
				}
			}

			fmt.Printf("%v after %d instructions\n", state, eng.Count)
			fmt.Print(eng.String())

			ouf, err := os.Create(dumpfile)
			if err != nil {
				log.Fatalf("%v: %v", dumpfile, err)
			}
			defer ouf.Close()

			dump := &io.Dump{Start: start, End: end}
			err = dump.Write(ouf, eng.Memory[:])
			if err != nil {
				log.Fatalf("%v: %v", dumpfile, err)
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return cmd
}

// rootCmd builds the uvm command tree.
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uvm",
		Short: "Assembler and interpreter for the UVM virtual machine",
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	var lang string
	cmd.PersistentFlags().StringVar(&lang, "lang", "", "Message language, as a BCP 47 tag (default: system locale)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if len(lang) == 0 {
			return nil
		}
		return translate.SetLanguage(lang)
	}

	cmd.AddCommand(assembleCmd(), runCmd())

	return cmd
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
