package shell

import (
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// Process is a node in the process tree.
type Process interface {
	PID() int32
	Name() (string, error)
	Exe() (string, error)
	Parent() (Process, error)
}

// ProcessTree yields the current process as the starting point of an ascent.
type ProcessTree interface {
	Current() (Process, error)
}

// SystemTree returns the OS process tree.
func SystemTree() ProcessTree {
	return systemTree{}
}

type systemTree struct{}

func (systemTree) Current() (Process, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return systemProcess{p: p}, nil
}

type systemProcess struct {
	p *process.Process
}

func (s systemProcess) PID() int32 { return s.p.Pid }

func (s systemProcess) Name() (string, error) { return s.p.Name() }

func (s systemProcess) Exe() (string, error) { return s.p.Exe() }

func (s systemProcess) Parent() (Process, error) {
	parent, err := s.p.Parent()
	if err != nil {
		return nil, err
	}
	return systemProcess{p: parent}, nil
}
