package main

import (
	"fmt"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Station-Manager/logsink"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Submit synthetic records from several goroutines and report sink counters",
	RunE:  runEmit,
}

func init() {
	emitCmd.Flags().Int("count", 1000, "Records per worker")
	emitCmd.Flags().Int("workers", 4, "Number of submitting goroutines")
	emitCmd.Flags().Duration("flush-timeout", 5*time.Second, "How long to wait for delivery before shutting down")

	viper.BindPFlag("emit.count", emitCmd.Flags().Lookup("count"))
	viper.BindPFlag("emit.workers", emitCmd.Flags().Lookup("workers"))
	viper.BindPFlag("emit.flush-timeout", emitCmd.Flags().Lookup("flush-timeout"))

	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	count := viper.GetInt("emit.count")
	workers := viper.GetInt("emit.workers")
	flushTimeout := viper.GetDuration("emit.flush-timeout")
	if count <= 0 || workers <= 0 {
		return fmt.Errorf("%w: --count and --workers must be positive", ErrInvalidArgs)
	}

	sink, err := openSink()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := sink.Named("emit").Named(runID)

	accepted, _ := logsink.TimeCall(log, "emit", func() (int, error) {
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			total int
		)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				n := 0
				for i := 0; i < count; i++ {
					if log.Submit(logsink.NewRecord(logsink.LevelInfo, "", fmt.Sprintf("worker %d record %d", worker, i))) {
						n++
					}
				}
				mu.Lock()
				total += n
				mu.Unlock()
			}(w)
		}
		wg.Wait()
		return total, nil
	})

	flushed := sink.Flush(flushTimeout)
	closeErr := sink.Close()
	st := sink.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSUBMITTED\tACCEPTED\tDELIVERED\tDROPPED\tREJECTED\tWRITE ERRORS\tFLUSHED")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%t\n",
		runID, count*workers, accepted, st.Delivered, st.Dropped, st.Rejected, st.WriteErrors, flushed)
	w.Flush()

	if closeErr != nil {
		return fmt.Errorf("%w: %w", ErrCloseSink, closeErr)
	}
	return nil
}
