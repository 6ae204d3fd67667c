package logger

import (
	"fmt"
	"sync"

	glog "github.com/Laisky/go-utils/v5/log"

	"github.com/dastarkhwan/dastarkhwan/common/config"
)

var (
	Logger       glog.Logger
	setupLogOnce sync.Once
)

// init initializes the logger automatically when the package is imported
func init() {
	SetupLogger()
}

// SetupLogger configures the shared structured logger. Safe to call more
// than once; only the first call takes effect.
func SetupLogger() {
	setupLogOnce.Do(func() {
		var err error
		level := glog.LevelInfo
		if config.DebugEnabled {
			level = glog.LevelDebug
		}

		Logger, err = glog.NewConsoleWithName("dastarkhwan", level)
		if err != nil {
			panic(fmt.Sprintf("failed to create logger: %+v", err))
		}
	})
}
