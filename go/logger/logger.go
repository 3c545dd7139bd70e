// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logger

//go:generate mockgen -source logger.go -destination logger_mock.go -package logger

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

var LogLevelFlag = cli.StringFlag{
	Name:    "log",
	Aliases: []string{"l"},
	Usage:   "level of logging (\"critical\", \"error\", \"warning\", \"notice\", \"info\", \"debug\")",
	Value:   "info",
}

const defaultLogFormat = "%{time:2006/01/02 15:04:05} %{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"

// Logger is the logging facade used by the sandbox and its components.
// Error reports failed operations, Warning rejected transactions, Notice
// milestones such as new blocks, Info repeated progress messages and Debug
// details of individual transactions.
type Logger interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Warning(args ...interface{})
	Warningf(format string, args ...interface{})

	Notice(args ...interface{})
	Noticef(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

// NewLogger creates a logger for the given module writing to stdout. Unknown
// levels fall back to INFO.
func NewLogger(level string, module string) *logging.Logger {
	return newLogger(os.Stdout, level, module)
}

// NewDiscardLogger creates a logger dropping all messages.
func NewDiscardLogger(module string) *logging.Logger {
	return newLogger(io.Discard, "critical", module)
}

func newLogger(out io.Writer, level string, module string) *logging.Logger {
	backend := logging.NewLogBackend(out, "", 0)

	fm := logging.MustStringFormatter(defaultLogFormat)
	fmtBackend := logging.NewBackendFormatter(backend, fm)

	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	lvlBackend := logging.AddModuleLevel(fmtBackend)
	lvlBackend.SetLevel(lvl, module)

	res := logging.MustGetLogger(module)
	res.SetBackend(lvlBackend)
	return res
}
