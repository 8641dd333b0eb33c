package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it starts an
// interactive browsing session, like "linkwalk browse".
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkwalk [url]",
		Short: "Explore web pages from the console",
		Long: `linkwalk fetches a web page over HTTPS, saves it as page-<hostname>.html,
prints its title, links and images, and lets you follow a link or download
an image from a numbered menu.

Run without arguments to be prompted for a URL, or pass the first URL
directly. Requests can be routed through a SOCKS5 proxy (--proxy) or an
embedded Tor daemon (--tor), which also enables .onion addresses.`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBrowseCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addSessionFlags(cmd)

	cmd.AddCommand(NewBrowseCmd())
	cmd.AddCommand(NewGrabCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
