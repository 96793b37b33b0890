package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"framegw/codec"
	"framegw/frame"
	"framegw/jobspec"
	"framegw/modchain"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Install a forwarding job",
	Long:  `Install a job forwarding frames from --src to --dst through an optional modification chain.`,
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

var (
	addSrc        uint32
	addDst        uint32
	addFilterID   uint32
	addFilterMask uint32
	addEcho       bool
	addSrcTstamp  bool
	addOrID       uint32
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().Uint32Var(&addSrc, "src", 0, "source interface index")
	addCmd.Flags().Uint32Var(&addDst, "dst", 0, "destination interface index")
	addCmd.Flags().Uint32Var(&addFilterID, "filter-id", 0, "acceptance filter id")
	addCmd.Flags().Uint32Var(&addFilterMask, "filter-mask", 0, "acceptance filter mask")
	addCmd.Flags().BoolVar(&addEcho, "echo", false, "set the ECHO flag")
	addCmd.Flags().BoolVar(&addSrcTstamp, "src-tstamp", false, "set the SRC_TSTAMP flag")
	addCmd.Flags().Uint32Var(&addOrID, "or-id", 0, "if non-zero, OR this value into the frame id")
	addCmd.MarkFlagRequired("src")
	addCmd.MarkFlagRequired("dst")
}

func runAdd(cmd *cobra.Command, args []string) error {
	var flags uint16
	if addEcho {
		flags |= frame.FlagEcho
	}
	if addSrcTstamp {
		flags |= frame.FlagSrcTimestamp
	}

	var ops []modchain.Operator
	if addOrID != 0 {
		ops = append(ops, modchain.Operator{
			Kind:     modchain.KindOR,
			Selector: modchain.SelID,
			Operand:  frame.Frame{ID: addOrID},
		})
	}
	mc, err := modchain.New(ops, disabledXOR(), disabledCRC8())
	if err != nil {
		return err
	}

	spec := jobspec.JobSpec{
		Flags:    flags,
		Filter:   frame.Filter{ID: addFilterID, Mask: addFilterMask},
		SrcIdx:   addSrc,
		DstIdx:   addDst,
		ModChain: mc,
	}

	req := codec.EncodeRequest(spec)
	if _, err := gw.Add(req); err != nil {
		return err
	}
	fmt.Printf("job added: src=%d dst=%d\n", addSrc, addDst)
	return nil
}

func disabledXOR() modchain.XORChecksum {
	return modchain.XORChecksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}

func disabledCRC8() modchain.CRC8Checksum {
	return modchain.CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}
