// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Command bridgelab runs the classroom backend. The bare command starts
// the HTTP server; subcommands cover operator chores (table stats, CSV
// roster import) over the same storage layer.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qiaoxue/bridgelab/internal/chat"
	"github.com/qiaoxue/bridgelab/internal/config"
	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/httpapi"
	"github.com/qiaoxue/bridgelab/internal/i18n"
	"github.com/qiaoxue/bridgelab/internal/logging"
	"github.com/qiaoxue/bridgelab/internal/model"
	"github.com/qiaoxue/bridgelab/internal/student"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "bridgelab",
	Short:        "Bridge engineering classroom backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Resolve()
		logging.SetLevel(cfg.LogLevel)
		i18n.Init(cfg.Language)
		_, err := db.Init(cfg.Database)
		return err
	},
	RunE: runServe,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print student table statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := student.NewRepository(db.Default())
		stats, err := repo.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("students: %d\nleaders:  %d\nmembers:  %d\ngroups:   %d\n",
			stats.Total, stats.Leaders, stats.Members, stats.Groups)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <roster.csv>",
	Short: "Import a student roster from a CSV file",
	Long: `Import reads a CSV roster with the columns
name,grade,studentId,gender,role,groupName,groupPassword (header row
required) and inserts the records as one batch. Rows that violate the
group invariants are reported and skipped; the rest are committed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := readRoster(args[0])
		if err != nil {
			return err
		}
		repo := student.NewRepository(db.Default())
		result, err := repo.BatchAdd(cmd.Context(), list)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d, skipped %d\n", result.Success, result.Failed)
		for _, e := range result.Errors {
			fmt.Printf("  %s (%s): %s\n", e.Name, e.StudentID, e.Reason)
		}
		return nil
	},
}

// readRoster parses the CSV file into create records. Column order is
// fixed; the header row is validated only for arity.
func readRoster(path string) ([]model.CreateStudent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 7

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var list []model.CreateStudent
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		list = append(list, model.CreateStudent{
			Name:          rec[0],
			Grade:         rec[1],
			StudentID:     rec[2],
			Gender:        model.Gender(rec[3]),
			Role:          model.Role(rec[4]),
			GroupName:     rec[5],
			GroupPassword: rec[6],
		})
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return list, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chatSvc := chat.NewService(chat.NewClient(cfg.Chat))
	srv := httpapi.NewServer(cfg, db.Default(), chatSvc)

	logging.Infof("bridgelab starting (engine=%s, lang=%s)", cfg.Database.Type, cfg.Language)
	return srv.Start(ctx)
}

func main() {
	rootCmd.AddCommand(statsCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
