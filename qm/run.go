/*
 * run.go, part of oxpot.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package qm

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runner contains what all the handles need to run a program: where to run it,
// for how long, and whether to keep the files afterwards.
// Every calculation runs in its own directory under scratch, so several
// calculations can run at the same time even if the program always uses the same
// output file names.
type runner struct {
	command string
	nCPU    int
	scratch string
	keep    bool
	timeout time.Duration
	log     *zap.Logger
}

// SetnCPU sets the number of CPU to be used
func (O *runner) SetnCPU(cpu int) {
	O.nCPU = cpu
}

// Command returns the path and name for the excecutable
func (O *runner) Command() string {
	return O.command
}

// SetCommand sets the path and name for the excecutable
func (O *runner) SetCommand(name string) {
	O.command = name
}

// SetScratch sets the directory under which the calculation directories are created.
func (O *runner) SetScratch(d string) {
	O.scratch = d
}

// SetKeepFiles sets whether the calculation directories are kept after the calculation.
func (O *runner) SetKeepFiles(keep bool) {
	O.keep = keep
}

// SetTimeout sets the maximum time a single calculation can run. 0 means no limit.
func (O *runner) SetTimeout(t time.Duration) {
	O.timeout = t
}

// SetLogger sets the logger for the handle. A nil logger disables logging.
func (O *runner) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	O.log = l
}

func (O *runner) logger() *zap.Logger {
	if O.log == nil {
		return zap.NewNop()
	}
	return O.log
}

// workDir creates a new, uniquely named, calculation directory.
func (O *runner) workDir(program string) (string, error) {
	root := O.scratch
	if root == "" {
		root = os.TempDir()
	}
	d := filepath.Join(root, strings.ToLower(program)+"-"+uuid.NewString())
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

func (O *runner) cleanup(dir string) {
	if O.keep || dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		O.logger().Warn("couldn't remove calculation directory", zap.String("dir", dir), zap.Error(err))
	}
}

// run runs the program with the given arguments in dir, waiting for it to finish.
// Both standard output and standard error go to dir/outname.
func (O *runner) run(ctx context.Context, dir, outname string, args ...string) error {
	if O.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, O.timeout)
		defer cancel()
	}
	out, err := os.Create(filepath.Join(dir, outname))
	if err != nil {
		return err
	}
	defer out.Close()
	command := exec.CommandContext(ctx, O.command, args...)
	command.Dir = dir
	command.Stdout = out
	command.Stderr = out
	O.logger().Debug("running", zap.String("command", O.command), zap.Strings("args", args), zap.String("dir", dir))
	start := time.Now()
	err = command.Run()
	O.logger().Debug("finished", zap.String("command", O.command), zap.Duration("took", time.Since(start)), zap.Error(err))
	return err
}

// searchBackwards searches a file for a string, and returns the last line that contains it,
// or an empty string.
func searchBackwards(str, filename string) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	last := ""
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		if strings.Contains(s.Text(), str) {
			last = s.Text()
		}
	}
	return last
}

// field returns the i-th whitespace-separated field of line, or an error.
func field(line string, i int) (string, error) {
	f := strings.Fields(line)
	if len(f) <= i {
		return "", fmt.Errorf("line %q has only %d fields, wanted field %d", line, len(f), i)
	}
	return f[i], nil
}
