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

import (
	"bytes"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var out bytes.Buffer
	log := newLogger(&out, "chatty", "test-unknown")
	log.Debug("hidden")
	log.Info("shown")
	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug message should not be printed, got %q", out.String())
	}
	if !strings.Contains(out.String(), "shown") {
		t.Errorf("info message missing, got %q", out.String())
	}
}

func TestNewLogger_LevelsAreRespected(t *testing.T) {
	tests := map[string]struct {
		level   string
		printed []logging.Level
	}{
		"critical": {"critical", []logging.Level{logging.CRITICAL}},
		"warning":  {"warning", []logging.Level{logging.CRITICAL, logging.ERROR, logging.WARNING}},
		"debug": {"debug", []logging.Level{
			logging.CRITICAL, logging.ERROR, logging.WARNING, logging.NOTICE, logging.INFO, logging.DEBUG,
		}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			log := newLogger(&out, test.level, "test-"+name)
			for _, level := range test.printed {
				if !log.IsEnabledFor(level) {
					t.Errorf("level %v should be enabled", level)
				}
			}
			if len(test.printed) < 6 && log.IsEnabledFor(test.printed[len(test.printed)-1]+1) {
				t.Errorf("level %v should be disabled", test.printed[len(test.printed)-1]+1)
			}
		})
	}
}

func TestNewDiscardLogger_PrintsNothingBelowCritical(t *testing.T) {
	log := NewDiscardLogger("test-discard")
	if log.IsEnabledFor(logging.ERROR) {
		t.Errorf("discard logger should not print errors")
	}
}

func TestLogger_IsSatisfiedByGoLogging(t *testing.T) {
	var _ Logger = NewDiscardLogger("test-interface")
}
