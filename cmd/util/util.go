package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// helpWidth is the column at which flag help texts wrap
const helpWidth = 50

// WrapString greedily fills lines of at most helpWidth characters with the
// words of the given help text.
func WrapString(text string) string {
	var lines []string
	var line []string
	width := 0

	for _, word := range strings.Fields(text) {
		// +1 for the joining space when the line already has content
		needed := len(word)
		if len(line) > 0 {
			needed++
		}
		if width+needed > helpWidth && len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
			line, width = line[:0], 0
			needed = len(word)
		}
		line = append(line, word)
		width += needed
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}

	return strings.Join(lines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dctg")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
