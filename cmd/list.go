package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"framegw/job"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ps"},
	Short:   "List resident jobs",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	var jobs []*job.Job
	cursor := 0
	for {
		batch, next, err := listBatch(cursor)
		if err != nil {
			return err
		}
		jobs = append(jobs, batch...)
		if next < 0 {
			break
		}
		cursor = next
	}

	if listFormat == "json" {
		return outputJSON(jobs)
	}
	return outputTable(jobs)
}

// listBatch fetches one page of resident jobs directly from the
// Registry (gateway.List returns wire-encoded records intended for the
// management transport; the CLI, talking to the Gateway in-process,
// reads the Jobs themselves instead).
func listBatch(cursor int) ([]*job.Job, int, error) {
	snap := gw.Snapshot()
	if cursor >= len(snap) {
		return nil, -1, nil
	}
	return snap[cursor:], -1, nil
}

func outputTable(jobs []*job.Job) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SRC\tDST\tFILTER_ID\tFILTER_MASK\tHANDLED\tDROPPED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%d\t%d\t0x%x\t0x%x\t%d\t%d\n",
			j.Spec.SrcIdx, j.Spec.DstIdx, j.Spec.Filter.ID, j.Spec.Filter.Mask, j.Handled(), j.Dropped())
	}
	return w.Flush()
}

func outputJSON(jobs []*job.Job) error {
	type listItem struct {
		Src, Dst             uint32
		FilterID, FilterMask uint32
		Handled, Dropped     uint32
	}
	items := make([]listItem, len(jobs))
	for i, j := range jobs {
		items[i] = listItem{
			Src: j.Spec.SrcIdx, Dst: j.Spec.DstIdx,
			FilterID: j.Spec.Filter.ID, FilterMask: j.Spec.Filter.Mask,
			Handled: j.Handled(), Dropped: j.Dropped(),
		}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}
