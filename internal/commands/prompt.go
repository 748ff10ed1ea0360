package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confirm asks question on stdout and reads one line from stdin. Only "y"
// or "Y" confirms; anything else, including end of input, declines.
func confirm(cmd *cobra.Command, yes bool, question string) bool {
	if yes {
		return true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [Y/n]", question)

	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	fmt.Fprintln(out)
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
