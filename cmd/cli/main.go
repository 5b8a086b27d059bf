// Binary cli clicks control panel buttons on a thermal camera server from the command line.
package main

import (
	"fmt"
	"os"
	filepath "path"

	"github.com/spf13/cobra"

	"github.com/mtraver/rpi-thermal-cam/panel"
)

var (
	addr   string
	repeat int
)

var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Control a thermal camera server",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List control panel elements and the paths they trigger",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), panel.String())
	},
}

var clickCmd = &cobra.Command{
	Use:   "click element [element...]",
	Short: "Click one or more control panel elements",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClick,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8000", "base URL of the camera's web UI")
	clickCmd.Flags().IntVar(&repeat, "repeat", 1, "number of times to click each element")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
	}

	// Validate everything before the first request goes out.
	for _, id := range args {
		if _, err := panel.Lookup(id); err != nil {
			return err
		}
	}

	b, err := panel.New(addr)
	if err != nil {
		return err
	}

	for _, id := range args {
		for i := 0; i < repeat; i++ {
			if _, err := b.Click(id); err != nil {
				return err
			}
		}
	}

	// Requests are fire-and-forget, but the process must outlive them.
	b.Wait()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
