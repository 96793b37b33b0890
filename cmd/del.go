package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"framegw/codec"
	"framegw/frame"
	"framegw/jobspec"
	"framegw/modchain"
)

var delCmd = &cobra.Command{
	Use:   "del",
	Short: "Remove a forwarding job",
	Long: `Remove the first resident job whose spec equals --src/--dst/--filter-id/--filter-mask
with no flags and an empty modification chain, or every resident job if --all is given.
Jobs installed with --echo, --src-tstamp or --or-id do not match.`,
	Args: cobra.NoArgs,
	RunE: runDel,
}

var (
	delSrc        uint32
	delDst        uint32
	delFilterID   uint32
	delFilterMask uint32
	delAll        bool
)

func init() {
	rootCmd.AddCommand(delCmd)

	delCmd.Flags().Uint32Var(&delSrc, "src", 0, "source interface index")
	delCmd.Flags().Uint32Var(&delDst, "dst", 0, "destination interface index")
	delCmd.Flags().Uint32Var(&delFilterID, "filter-id", 0, "acceptance filter id")
	delCmd.Flags().Uint32Var(&delFilterMask, "filter-mask", 0, "acceptance filter mask")
	delCmd.Flags().BoolVar(&delAll, "all", false, "remove every resident job")
}

func runDel(cmd *cobra.Command, args []string) error {
	spec := jobspec.JobSpec{ModChain: emptyModChain()}
	if !delAll {
		spec.SrcIdx = delSrc
		spec.DstIdx = delDst
		spec.Filter = frame.Filter{ID: delFilterID, Mask: delFilterMask}
	}

	req := codec.EncodeRequest(spec)
	if err := gw.Del(req); err != nil {
		return err
	}
	if delAll {
		fmt.Println("all jobs removed")
	} else {
		fmt.Printf("job removed: src=%d dst=%d\n", delSrc, delDst)
	}
	return nil
}

func emptyModChain() modchain.ModChain {
	mc, _ := modchain.New(nil, disabledXOR(), disabledCRC8())
	return mc
}
