package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/dharmasatrya/airfare/internal/ingest"
	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/query"
)

var parseReq models.TicketsRequest

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Normalize one or more documents and print the selected tickets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ingestCfg, err := ingest.ConfigFrom(cfg.Ingest)
		if err != nil {
			return err
		}
		ing := ingest.NewIngester(ingestCfg)

		mode, policy, err := parseReq.Validate(ingestCfg.Policy)
		if err != nil {
			return err
		}
		if !query.ValidSortKey(parseReq.SortBy) {
			return models.ErrInvalidSortKey
		}
		req := ingest.Request{Mode: mode, Policy: policy}
		start := time.Now()

		if len(args) == 1 {
			result, err := ing.IngestFile(ctx, args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result.Response(parseReq, start))
		}

		docs := make([]ingest.Document, 0, len(args))
		for _, path := range args {
			data, err := readFile(ing, path)
			if err != nil {
				return err
			}
			docs = append(docs, ingest.Document{Name: filepath.Base(path), Data: data})
		}

		items, err := ing.IngestBatch(ctx, docs, req)
		if err != nil {
			return err
		}

		resp := models.BatchResponse{
			Documents: len(items),
			Results:   make([]models.BatchEntry, len(items)),
		}
		for i, item := range items {
			entry := models.BatchEntry{Name: item.Name}
			if item.Err != nil {
				entry.Error = &models.ErrorResponse{Error: "ingest_error", Message: item.Err.Error()}
				resp.Failed++
			} else {
				entry.Response = item.Result.Response(parseReq, start)
				resp.Succeeded++
			}
			resp.Results[i] = entry
		}

		if err := writeJSON(cmd, resp); err != nil {
			return err
		}
		if resp.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed", resp.Failed, resp.Documents)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseReq.Mode, "mode", "all", "query mode (see \"fareparse modes\")")
	parseCmd.Flags().StringVar(&parseReq.Policy, "policy", "", "error policy: fail_fast or best_effort (default from config)")
	parseCmd.Flags().StringVar(&parseReq.SortBy, "sort-by", "", "sort key: price, duration, departure or stops")
	parseCmd.Flags().StringVar(&parseReq.SortOrder, "sort-order", "asc", "sort order: asc or desc")
	rootCmd.AddCommand(parseCmd)
}

func readFile(ing *ingest.Ingester, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return ing.ReadAll(f)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
