package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-report/pkg/report"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "go-report",
	Short:         "Build Word reports from tabular data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets <workbook.xlsx>",
	Short: "List the worksheets of an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := report.SheetNames(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%d worksheet(s)\n", len(names))
		for i, name := range names {
			fmt.Printf("%3d  %s\n", i+1, name)
		}
		return nil
	},
}

var (
	csvOutput  string
	csvTitle   string
	csvHeading string
)

var csvCmd = &cobra.Command{
	Use:   "csv <data.csv>",
	Short: "Render a CSV file as a Word report table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCSV(args[0])
		if err != nil {
			return err
		}

		rpt, err := report.New()
		if err != nil {
			return err
		}
		if csvHeading != "" {
			if err := rpt.AddHeading(csvHeading, 1); err != nil {
				return err
			}
		}

		var opts []report.TableOption
		if csvTitle != "" {
			opts = append(opts, report.WithTitle(csvTitle))
		}
		if _, err := rpt.AddTable(data, opts...); err != nil {
			return err
		}

		if err := rpt.Save(csvOutput); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d rows)\n", csvOutput, len(data.Records))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("go-report version %s\n", version)
	},
}

func init() {
	csvCmd.Flags().StringVarP(&csvOutput, "output", "o", "report.docx", "output document path")
	csvCmd.Flags().StringVar(&csvTitle, "title", "", "table caption title")
	csvCmd.Flags().StringVar(&csvHeading, "heading", "", "level 1 heading written before the table")

	rootCmd.AddCommand(sheetsCmd)
	rootCmd.AddCommand(csvCmd)
	rootCmd.AddCommand(versionCmd)
}

// readCSV loads a CSV file into table data; the first record is the
// header row.
func readCSV(path string) (report.TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.TableData{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return report.TableData{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return report.TableData{}, fmt.Errorf("%s has no rows", path)
	}

	data := report.TableData{Columns: rows[0]}
	for _, row := range rows[1:] {
		record := make([]any, len(row))
		for i, v := range row {
			record[i] = v
		}
		data.Records = append(data.Records, record)
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
