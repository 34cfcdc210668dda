package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/search"
)

func newSearchCommand() *cobra.Command {
	var (
		source   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the site index",
		Long: `Search the precomputed site index.

With a query argument prints matches once. Without it reads queries line by
line from stdin and searches as you type: a line is searched only after the
input pauses for --debounce, an empty line clears the results.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := search.Load(cmd.Context(), source)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				printResults(out, args[0], index.Search(args[0]))
				return nil
			}
			return liveSearch(cmd.InOrStdin(), out, index, debounce)
		},
	}
	cmd.Flags().StringVar(&source, "index", "", "index file path or http(s) URL")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "pause before a query runs")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func printResults(w io.Writer, query string, results []models.SearchIndexEntry) {
	fmt.Fprintf(w, "> %s (%d)\n", query, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\n", r.Title, r.URL)
	}
}

// liveSearch подает строки in в search.Live. В конце ввода ожидающий запрос
// выполняется сразу, если его результат еще не выведен.
func liveSearch(in io.Reader, out io.Writer, index *search.Index, delay time.Duration) error {
	var (
		mu      sync.Mutex
		closed  bool
		printed string
		last    string
	)

	live := search.NewLive(index, delay, func(query string, results []models.SearchIndexEntry) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		printed = query
		if strings.TrimSpace(query) == "" {
			fmt.Fprintln(out, "> (cleared)")
			return
		}
		printResults(out, query, results)
	})

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = scanner.Text()
		live.Input(last)
	}
	live.Close()

	mu.Lock()
	defer mu.Unlock()
	closed = true
	if strings.TrimSpace(last) != "" && printed != last {
		printResults(out, last, index.Search(last))
	}
	return scanner.Err()
}
