package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"framegw/frame"
	"framegw/jobspec"
	"framegw/modchain"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Bulk-install jobs from a YAML file",
	Long:  `Install every job described in a YAML file, the operator-facing analogue of a start-of-day bundle.`,
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

var applyFile string

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "path to a YAML job list")
	applyCmd.MarkFlagRequired("file")
}

// yamlJob is the YAML-facing shape of one job entry: simpler than the
// wire JobSpec (no raw operator list), covering the common passthrough +
// single-OR-id case framegwctl add also exposes.
type yamlJob struct {
	Src        uint32 `yaml:"src"`
	Dst        uint32 `yaml:"dst"`
	FilterID   uint32 `yaml:"filter_id"`
	FilterMask uint32 `yaml:"filter_mask"`
	Echo       bool   `yaml:"echo"`
	SrcTstamp  bool   `yaml:"src_tstamp"`
	OrID       uint32 `yaml:"or_id"`
}

func runApply(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(applyFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", applyFile, err)
	}

	var jobs []yamlJob
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("parse %s: %w", applyFile, err)
	}

	installed := 0
	for _, yj := range jobs {
		spec, err := yj.toSpec()
		if err != nil {
			return err
		}
		if _, err := gw.AddSpec(spec); err != nil {
			return fmt.Errorf("add src=%d dst=%d: %w", yj.Src, yj.Dst, err)
		}
		installed++
	}
	fmt.Printf("installed %d jobs from %s\n", installed, applyFile)
	return nil
}

func (yj yamlJob) toSpec() (jobspec.JobSpec, error) {
	var flags uint16
	if yj.Echo {
		flags |= frame.FlagEcho
	}
	if yj.SrcTstamp {
		flags |= frame.FlagSrcTimestamp
	}

	var ops []modchain.Operator
	if yj.OrID != 0 {
		ops = append(ops, modchain.Operator{
			Kind:     modchain.KindOR,
			Selector: modchain.SelID,
			Operand:  frame.Frame{ID: yj.OrID},
		})
	}
	mc, err := modchain.New(ops, disabledXOR(), disabledCRC8())
	if err != nil {
		return jobspec.JobSpec{}, err
	}

	return jobspec.JobSpec{
		Flags:    flags,
		Filter:   frame.Filter{ID: yj.FilterID, Mask: yj.FilterMask},
		SrcIdx:   yj.Src,
		DstIdx:   yj.Dst,
		ModChain: mc,
	}, nil
}
