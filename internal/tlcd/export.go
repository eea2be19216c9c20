// Package tlcd writes logic networks as threshold-logic circuit descriptions.
//
// File layout (one record per line, fields separated by spaces):
//
//	# Equations for "<network>" written by <tool> on <timestamp>
//	tlg <maxVar> <inputs> <latches> <outputs> <gates>
//	<input name>                                   x inputs
//	<output name>                                  x outputs
//	<gate> <w_k> ... <w_1> <threshold> <formula>   x gates
//
// Weights are listed from the last fanin to the first. Formulas use ! * + and
// parentheses, with 0 and 1 as constants, which is why such characters are
// rejected in object names before anything is written.
package tlcd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/strftime"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"tlgen/internal/network"
	"tlgen/internal/thresh"
)

const (
	// DefaultTool is the generator name written in the comment line.
	DefaultTool = "tlgen"
	// DefaultTimeFormat renders like ctime(3).
	DefaultTimeFormat = "%a %b %e %H:%M:%S %Y"
)

// Options configures an export. The zero value is usable.
type Options struct {
	// Tool names the generator in the comment line.
	Tool string
	// TimeFormat is a strftime pattern for the comment line timestamp.
	TimeFormat string
	Clock      clockwork.Clock
	Logger     logrus.FieldLogger
	// Synthesizer computes weights and thresholds; defaults to thresh.Heuristic.
	Synthesizer thresh.Synthesizer
	// Progress, when set, is called as gates are encoded with the id of the
	// current node and ObjNumMax of the network, and once more with
	// done == total at the end.
	Progress func(done, total int)
}

type resolved struct {
	Options
	stamp *strftime.Strftime
}

func (o Options) resolve() (*resolved, error) {
	if o.Tool == "" {
		o.Tool = DefaultTool
	}
	if o.TimeFormat == "" {
		o.TimeFormat = DefaultTimeFormat
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		o.Logger = l
	}
	if o.Synthesizer == nil {
		o.Synthesizer = thresh.Heuristic{}
	}
	stamp, err := strftime.New(o.TimeFormat)
	if err != nil {
		return nil, fmt.Errorf("timestamp format %q is invalid: %w", o.TimeFormat, err)
	}
	return &resolved{Options: o, stamp: stamp}, nil
}

// Export writes ntk to path on fs.
//
// Names are validated and every gate line is encoded before the file is
// created: a *NamingError or *GateError means no file exists. A failure to
// create the file is an *OpenError. Once the file is open every section is
// written in order; I/O failures come back as *WriteError and the file is
// closed on every path.
func Export(fs afero.Fs, ntk *network.Network, path string, opts Options) (err error) {
	s, err := opts.resolve()
	if err != nil {
		return err
	}
	gates, err := s.prepare(ntk)
	if err != nil {
		return err
	}

	f, err := fs.Create(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	bw := bufio.NewWriter(f)
	if err := s.write(bw, ntk, gates, path); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	s.Logger.WithFields(logrus.Fields{"network": ntk.Name, "path": path}).Debug("network written")
	return nil
}

// Write validates ntk and writes it to w. It is the stream form of Export;
// nothing reaches w when a name or a gate is rejected.
func Write(w io.Writer, ntk *network.Network, opts Options) error {
	s, err := opts.resolve()
	if err != nil {
		return err
	}
	gates, err := s.prepare(ntk)
	if err != nil {
		return err
	}
	return s.write(w, ntk, gates, "")
}

// prepare runs every check that can reject the network and returns the
// encoded gate lines in node order.
func (s *resolved) prepare(ntk *network.Network) ([]string, error) {
	s.warnLatches(ntk)
	if err := Validate(ntk); err != nil {
		return nil, err
	}
	return s.encodeGates(ntk)
}

func (s *resolved) warnLatches(ntk *network.Network) {
	if ntk.LatchNum() == 0 {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"network": ntk.Name,
		"latches": ntk.LatchNum(),
	}).Warn("only combinational portion is being written")
}

// encodeGates encodes the internal nodes in declaration order, reporting
// progress as it goes.
func (s *resolved) encodeGates(ntk *network.Network) ([]string, error) {
	enc := &gateEncoder{ntk: ntk, synth: s.Synthesizer}
	total := ntk.ObjNumMax()
	lines := make([]string, 0, ntk.NodeNum())
	for _, id := range ntk.Nodes() {
		if s.Progress != nil {
			s.Progress(id, total)
		}
		line, err := enc.encode(id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if s.Progress != nil {
		s.Progress(total, total)
	}
	return lines, nil
}

// write emits every section. Names must already be validated and gates
// encoded.
func (s *resolved) write(out io.Writer, ntk *network.Network, gates []string, path string) error {
	w := &stickyWriter{w: out}
	w.printf("# Equations for \"%s\" written by %s on %s\n", ntk.Name, s.Tool, s.stamp.FormatString(s.Clock.Now()))
	writeHeader(w, ntk)
	writeCis(w, ntk)
	writeCos(w, ntk)
	for _, line := range gates {
		w.printf("%s\n", line)
	}
	if w.err != nil {
		return &WriteError{Path: path, Err: w.err}
	}
	return nil
}
