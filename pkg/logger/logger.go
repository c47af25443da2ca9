package logger

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solo-io/go-utils/contextutils"
	"go.uber.org/zap"
)

const DebugLogFile = "debug.log"

// BuildContext derives the run context: cancelled on SIGINT/SIGTERM, bounded
// by timeout when it is positive, and carrying a zap logger that writes to
// debug.log when debug is set and discards everything otherwise. The
// returned func releases all of it.
func BuildContext(ctx context.Context, debug bool, timeout time.Duration) (context.Context, func(), error) {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	stopper := make(chan os.Signal, 1)
	signal.Notify(stopper, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-stopper:
			fmt.Fprintln(os.Stderr, "got sigterm or interrupt")
			cancel()
		case <-ctx.Done():
		}
	}()

	var sugaredLogger *zap.SugaredLogger
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{DebugLogFile}
		cfg.ErrorOutputPaths = []string{DebugLogFile}
		logger, err := cfg.Build()
		if err != nil {
			signal.Stop(stopper)
			cancel()
			return nil, nil, fmt.Errorf("couldn't create zap logger: '%w'", err)
		}
		sugaredLogger = logger.Sugar()
	} else {
		sugaredLogger = zap.NewNop().Sugar()
	}

	cleanup := func() {
		_ = sugaredLogger.Sync()
		signal.Stop(stopper)
		cancel()
	}
	return contextutils.WithExistingLogger(ctx, sugaredLogger), cleanup, nil
}
