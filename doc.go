// Package logsink provides a bounded, asynchronous log sink: many goroutines
// submit records, one dispatcher goroutine per sink writes them in order to a
// list of backends.
//
// Key features
//   - Bounded queue with a block (with timeout) or drop-oldest overflow policy
//   - Strict FIFO delivery; backends are only ever called from the dispatcher
//   - Backend failures are counted and reported to the self-log, never returned
//   - Shutdown drains for a bounded time, then discards and counts the rest
//   - Console (zerolog), rolling file (lumberjack) and zap backends
//   - Timing helpers and host probes (environment, memory, disk, GPU) that
//     emit records into a sink
//
// Typical usage
//
//	sink, err := logsink.New(logsink.DefaultConfig())
//	if err != nil { panic(err) }
//	defer sink.Close()
//
//	log := sink.Named("trainer")
//	log.Infof("epoch %d done", n)
//	defer logsink.ScopedTiming(log, "epoch").Done(&err)
package logsink
