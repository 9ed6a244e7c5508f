package daemon

import (
	"fmt"
	"os"

	"github.com/sevlyar/go-daemon"
)

// Daemon is a detached run. In the parent Child is the new process; in the
// detached child it is nil.
type Daemon struct {
	Child *os.Process
	ctx   *daemon.Context
}

// newContext describes the detached process. Parent and child must build
// the same context so the child can pick up the pid file the parent locked.
func newContext(pidFile, logFile string) (*daemon.Context, error) {
	// stay in the current directory so a relative -config keeps working
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return &daemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0644,
		LogFileName: logFile,
		LogFilePerm: 0640,
		WorkDir:     wd,
		Umask:       027,
		Args:        os.Args,
	}, nil
}

// Daemonize detaches the process. It must be called in both the parent and
// the child: the child's call writes the pid file and applies the umask.
func Daemonize(pidFile, logFile string) (*Daemon, error) {
	ctx, err := newContext(pidFile, logFile)
	if err != nil {
		return nil, err
	}

	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}

	return &Daemon{Child: child, ctx: ctx}, nil
}

// IsParent reports whether this is the process that started the daemon
func (d *Daemon) IsParent() bool {
	return d.Child != nil
}

// Release removes the pid file. Only the child should call it.
func (d *Daemon) Release() error {
	if d.IsParent() {
		return nil
	}
	return d.ctx.Release()
}

// IsChild returns true if this is the daemon child process
func IsChild() bool {
	return daemon.WasReborn()
}
