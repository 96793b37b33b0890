package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live view of job counters",
	Long:  `Render a raw-mode, periodically refreshed table of resident jobs and their counters.`,
	Args:  cobra.NoArgs,
	RunE:  runMonitor,
}

var monitorInterval time.Duration

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", time.Second, "refresh interval")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdin.Fd())

	var oldState *term.State
	if term.IsTerminal(fd) {
		var err error
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("make terminal raw: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	ctx := GetContext()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			render()
		}
	}
}

// render redraws the job table, using the terminal's current width if
// attached to one (falling back to 80 columns otherwise).
func render() {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	fmt.Print("\r\n") // CRLF: raw mode disables automatic \r on \n
	for i := 0; i < width; i++ {
		fmt.Print("-")
	}
	fmt.Print("\r\n")

	for _, j := range gw.Snapshot() {
		fmt.Printf("src=%d dst=%d handled=%d dropped=%d\r\n",
			j.Spec.SrcIdx, j.Spec.DstIdx, j.Handled(), j.Dropped())
	}
}
