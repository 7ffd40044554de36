package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/termdock/termdock/internal/config"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/store"
	"github.com/termdock/termdock/internal/util"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage persisted terminal buffers",
	Long:  `Commands for listing, inspecting, and deleting saved terminal buffers.`,
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Long: `List all saved terminal snapshots with their owner key, size,
dimensions, and when they were saved.`,
	RunE: runSnapshotsList,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <owner-key>",
	Short: "Print a snapshot's buffer content",
	Long: `Print the saved buffer content for a terminal.

The buffer is printed exactly as captured, so piping the output through
a pager preserves what was on screen when the snapshot was taken.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotsShow,
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete [owner-key]",
	Short: "Delete saved snapshots",
	Long: `Delete the snapshot for an owner key, or every snapshot with --all.

Deleting a snapshot only removes the saved buffer; it does not touch any
running terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshotsDelete,
}

var snapshotsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove corrupt and outdated snapshots",
	Long: `Remove snapshot files that no longer decode.

With --older-than, snapshots saved before the cutoff are removed as well.
Healthy snapshots inside the window are left alone.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotsClean,
}

var (
	deleteAll      bool
	cleanOlderThan string
)

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
	snapshotsCmd.AddCommand(snapshotsCleanCmd)

	snapshotsDeleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every saved snapshot")
	snapshotsCleanCmd.Flags().StringVar(&cleanOlderThan, "older-than", "",
		"Also remove snapshots older than this duration (e.g. 720h)")
}

func openStore() (*store.Store, error) {
	st, err := store.NewStore(config.SnapshotsDir(), logging.NopLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return st, nil
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	snaps, err := st.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots found.")
		fmt.Printf("Snapshots are stored at: %s\n", st.BaseDir())
		return nil
	}

	fmt.Println(strings.Repeat("─", 70))
	fmt.Printf("Snapshots (%d)\n", len(snaps))
	fmt.Println(strings.Repeat("─", 70))
	fmt.Println()

	for _, snap := range snaps {
		lines := len(snap.Buffer.Scrollback)
		fmt.Printf("  %s\n", snap.OwnerKey)
		fmt.Printf("    Saved:  %s\n", snap.SavedAt.Format(time.RFC822))
		fmt.Printf("    Size:   %d bytes, %d line(s)\n", snap.Buffer.SizeBytes, lines)
		fmt.Printf("    Screen: %dx%d, cursor at (%d, %d)\n",
			snap.Buffer.Cols, snap.Buffer.Rows, snap.Buffer.CursorX, snap.Buffer.CursorY)
		if last := lastNonEmptyLine(snap.Buffer.Scrollback); last != "" {
			fmt.Printf("    Last:   %s\n", util.Truncate(last, 60))
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("─", 70))
	fmt.Println("\nTo inspect one: termdock snapshots show <owner-key>")

	return nil
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	snap, err := st.Load(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	fmt.Println(snap.Buffer.Content)
	return nil
}

func runSnapshotsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if deleteAll {
		snaps, err := st.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots to delete.")
			return nil
		}
		for _, snap := range snaps {
			if err := st.Delete(ctx, snap.OwnerKey); err != nil {
				return fmt.Errorf("failed to delete snapshot %s: %w", snap.OwnerKey, err)
			}
			fmt.Printf("Deleted: %s\n", snap.OwnerKey)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("owner key required (or use --all)")
	}

	ownerKey := args[0]
	if !st.Exists(ctx, ownerKey) {
		return fmt.Errorf("no snapshot found for %s", ownerKey)
	}
	if err := st.Delete(ctx, ownerKey); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	fmt.Printf("Deleted: %s\n", ownerKey)
	return nil
}

func runSnapshotsClean(cmd *cobra.Command, args []string) error {
	var cutoff time.Duration
	if cleanOlderThan != "" {
		d, err := time.ParseDuration(cleanOlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than duration: %w", err)
		}
		cutoff = d
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	result, err := st.Prune(context.Background(), cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean snapshots: %w", err)
	}

	if len(result.Pruned) == 0 && len(result.Corrupt) == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}
	for _, key := range result.Pruned {
		fmt.Printf("Pruned: %s\n", key)
	}
	for _, name := range result.Corrupt {
		fmt.Printf("Removed corrupt file: %s\n", name)
	}

	return nil
}

// lastNonEmptyLine returns the most recent scrollback line with content.
func lastNonEmptyLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}
