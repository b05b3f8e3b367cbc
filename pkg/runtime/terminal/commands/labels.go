package commands

import (
	"sort"

	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
)

// StatLabels maps every known stats report key to its display label.
var StatLabels = map[string]string{
	aggregate.AllStats: "All stats",
	"sim_time":         "Simulation Time",
	"created":          "Created Messages",
	"started":          "Started Messages",
	"relayed":          "Relayed Messages",
	"aborted":          "Aborted Messages",
	"dropped":          "Dropped Messages",
	"removed":          "Removed Messages",
	"delivered":        "Delivered Messages",
	"delivery_prob":    "Delivery Probability",
	"response_prob":    "Response Probability",
	"overhead_ratio":   "Overhead Ratio",
	"latency_avg":      "Latency (Average)",
	"latency_med":      "Latency (Median)",
	"hopcount_avg":     "Hopcount (Average)",
	"hopcount_med":     "Hopcount (Median)",
	"buffertime_avg":   "Buffertime (Average)",
	"buffertime_med":   "Buffertime (Median)",
	"rtt_avg":          "RTT (Average)",
	"rtt_med":          "RTT (Median)",
}

func StatNames() []string {
	names := make([]string, 0, len(StatLabels))
	for n := range StatLabels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func statLabel(stat string) string {
	if l, ok := StatLabels[stat]; ok {
		return l
	}
	return stat
}
