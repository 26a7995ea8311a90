package cmd

import (
	"fmt"
	"time"

	"finsight/internal/cli"
	"finsight/internal/format"
	"finsight/internal/store"

	"github.com/spf13/cobra"
)

var flagSnapshotClear bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect the persisted view snapshots",
	RunE:  runSnapshots,
}

func init() {
	snapshotCmd.Flags().BoolVar(&flagSnapshotClear, "clear", false, "Delete all persisted snapshots")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshots(_ *cobra.Command, _ []string) error {
	path, err := store.DefaultPath()
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer st.Close()

	if flagSnapshotClear {
		if err := st.Clear(); err != nil {
			return err
		}
		fmt.Println("  Snapshots cleared.")
		return nil
	}

	rows, err := st.LoadAll()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("\n  No snapshots yet. Run `finsight status` or the dashboard first.")
		return nil
	}

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.View,
			fmt.Sprintf("%d", len(r.Payload)),
			r.FetchedAt.Local().Format("2006-01-02 15:04"),
			format.Age(time.Since(r.FetchedAt)),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Persisted Snapshots",
		Headers: []string{"View", "Bytes", "Fetched", "Age"},
		Rows:    tableRows,
	}))
	fmt.Printf("  Stored in %s\n\n", path)
	return nil
}
