package engine

import "fmt"

// CutStatistics collects counts for each cutoff and special node type.
type CutStatistics struct {
	TTCutoffs       uint64
	BetaCutoffs     uint64
	CornerDonations uint64
	Passes          uint64
	Terminals       uint64
	TTSize          int
}

func resetCutStats(c *CutStatistics) {
	*c = CutStatistics{}
}

// Lines formats the statistics as protocol "info string" lines.
func (c CutStatistics) Lines() []string {
	return []string{
		"info string Cut statistics:",
		fmt.Sprintf("info string   TT cutoffs: %d", c.TTCutoffs),
		fmt.Sprintf("info string   Beta cutoffs: %d", c.BetaCutoffs),
		fmt.Sprintf("info string   Corner donations: %d", c.CornerDonations),
		fmt.Sprintf("info string   Passes: %d", c.Passes),
		fmt.Sprintf("info string   Terminal nodes: %d", c.Terminals),
		fmt.Sprintf("info string   TT entries: %d", c.TTSize),
	}
}
