package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dCTG/cmd/assemble"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dctg",
		Short: "distributed contig assembler",
		Long: fmt.Sprintf(`dCTG (v%s)

A distributed contig assembler written in Go. It reconstructs linear DNA
contigs from a k-mer file striped across N cooperating processes, backed by
a partitioned open-addressed hash table with asynchronous buffered
messaging.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dCTG",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dCTG v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(assemble.AssembleCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
