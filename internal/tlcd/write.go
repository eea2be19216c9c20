package tlcd

import (
	"fmt"
	"io"

	"tlgen/internal/network"
)

// Header holds the five counts of the "tlg" line.
type Header struct {
	MaxVar  int `yaml:"max_var"`
	Inputs  int `yaml:"inputs"`
	Latches int `yaml:"latches"`
	Outputs int `yaml:"outputs"`
	Gates   int `yaml:"gates"`
}

// HeaderOf derives the header from the network's cardinalities.
func HeaderOf(ntk *network.Network) Header {
	inputs := ntk.CINum()
	gates := ntk.NodeNum()
	return Header{
		MaxVar:  inputs + gates,
		Inputs:  inputs,
		Latches: ntk.LatchNum(),
		Outputs: ntk.CONum(),
		Gates:   gates,
	}
}

func (h Header) String() string {
	return fmt.Sprintf("tlg %d %d %d %d %d", h.MaxVar, h.Inputs, h.Latches, h.Outputs, h.Gates)
}

// stickyWriter remembers the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// writeHeader writes the "tlg" line.
func writeHeader(w *stickyWriter, ntk *network.Network) {
	w.printf("%s\n", HeaderOf(ntk))
}

// writeCis writes the net driven by each combinational input, one per line.
func writeCis(w *stickyWriter, ntk *network.Network) {
	for _, ci := range ntk.CIs() {
		w.printf("%s\n", ntk.ObjName(ntk.Fanout0(ci)))
	}
}

// writeCos writes the net read by each combinational output, one per line.
func writeCos(w *stickyWriter, ntk *network.Network) {
	for _, co := range ntk.COs() {
		w.printf("%s\n", ntk.ObjName(ntk.Fanin0(co)))
	}
}
