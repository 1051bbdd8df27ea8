// Package cmd implements the dctg command line interface. Configuration
// follows the usual precedence: command line flags override environment
// variables (prefix DCTG_), which override .env files.
package cmd
