package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/termdock/termdock/internal/config"
	"github.com/termdock/termdock/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View termdock logs",
	Long: `View and filter the termdock log file.

By default, shows the last 50 entries. Use flags to filter and format
the output.

Examples:
  # Show last 50 entries
  termdock logs

  # Show everything
  termdock logs -n 0

  # Follow logs in real-time
  termdock logs -f

  # Filter by log level
  termdock logs --level warn

  # Show logs from the last hour
  termdock logs --since 1h

  # Only logs for one terminal
  termdock logs --owner web

  # Search for specific patterns
  termdock logs --grep "capture|restore"

  # Export filtered logs to a file
  termdock logs --level error --export errors.json`,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsOwner     string
	logsComponent string
	logsExport    string
	logsFormat    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsOwner, "owner", "", "Filter by owner key")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Filter by component (pool/shell/store/tui)")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write filtered entries to a file instead of printing")
	logsCmd.Flags().StringVar(&logsFormat, "format", "json", "Export format (json/text/csv)")
}

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// levelColor returns the ANSI color code for a log level
func levelColor(level string) string {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return colorGray
	case logging.LevelInfo:
		return colorBlue
	case logging.LevelWarn:
		return colorYellow
	case logging.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logging.LogEntry) string {
	var sb strings.Builder

	// Timestamp
	sb.WriteString(colorGray)
	sb.WriteString("[")
	sb.WriteString(entry.Timestamp.Format("15:04:05.000"))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	// Level with color
	sb.WriteString(" ")
	sb.WriteString(levelColor(entry.Level))
	sb.WriteString("[")
	sb.WriteString(strings.ToUpper(entry.Level))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	// Message
	sb.WriteString(" ")
	sb.WriteString(entry.Message)

	// Context fields
	if entry.OwnerKey != "" {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString("owner_key=")
		sb.WriteString(entry.OwnerKey)
		sb.WriteString(colorReset)
	}
	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString("component=")
		sb.WriteString(entry.Component)
		sb.WriteString(colorReset)
	}

	// Extra fields
	for key, value := range entry.Attrs {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(colorReset)
		sb.WriteString(fmt.Sprintf("%v", value))
	}

	return sb.String()
}

// buildFilter converts the command flags into a LogFilter.
func buildFilter() (logging.LogFilter, error) {
	filter := logging.LogFilter{
		OwnerKey:  logsOwner,
		Component: logsComponent,
	}

	if logsLevel != "" {
		filter.Level = logging.ParseLevel(logsLevel)
	}

	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return filter, fmt.Errorf("invalid duration format: %w", err)
		}
		filter.StartTime = time.Now().Add(-duration)
	}

	return filter, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logPath := cfg.Logging.ResolveFile()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No logs found.")
		fmt.Println("Logs are stored at:", logPath)
		return nil
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	var grepRegex *regexp.Regexp
	if logsGrep != "" {
		grepRegex, err = regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid grep pattern: %w", err)
		}
	}

	if logsFollow {
		return followLogs(logPath, filter, grepRegex)
	}

	return displayLogs(logPath, filter, grepRegex)
}

// displayLogs reads the log file and prints or exports filtered entries
func displayLogs(logPath string, filter logging.LogFilter, grepRegex *regexp.Regexp) error {
	entries, err := logging.AggregateLogs(logPath)
	if err != nil {
		return err
	}

	entries = logging.FilterLogs(entries, filter)
	entries = grepEntries(entries, grepRegex)

	// Export mode writes the filtered entries and prints nothing
	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	// Apply tail limit
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	for i := range entries {
		fmt.Println(formatLogEntry(&entries[i]))
	}

	if len(entries) == 0 {
		fmt.Println("No matching log entries found.")
	}

	return nil
}

// followLogs implements tail -f behavior for the log file
func followLogs(logPath string, filter logging.LogFilter, grepRegex *regexp.Regexp) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Printf("Following logs... (Ctrl+C to stop)\n\n")

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// No new data, wait briefly and try again
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("error reading log file: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry, err := logging.ParseLogEntry(line)
		if err != nil {
			// If we can't parse as JSON, display raw line
			fmt.Println(line)
			continue
		}

		filtered := grepEntries(logging.FilterLogs([]logging.LogEntry{entry}, filter), grepRegex)
		if len(filtered) == 0 {
			continue
		}

		fmt.Println(formatLogEntry(&filtered[0]))
	}
}

// grepEntries keeps entries whose message or attributes match the regex.
// A nil regex keeps everything.
func grepEntries(entries []logging.LogEntry, grepRegex *regexp.Regexp) []logging.LogEntry {
	if grepRegex == nil {
		return entries
	}

	var matched []logging.LogEntry
	for _, entry := range entries {
		searchText := entry.Message
		for _, v := range entry.Attrs {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if grepRegex.MatchString(searchText) {
			matched = append(matched, entry)
		}
	}
	return matched
}
