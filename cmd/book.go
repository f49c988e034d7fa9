package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/slotbook/internal/booking"
	"github.com/example/slotbook/internal/config"
	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/logging"
)

func newBookCmd() *cobra.Command {
	var (
		providerID string
		date       string
		slot       string
		token      string
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Book a slot with a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.DevMode)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if token == "" {
				token = cfg.DirectoryToken
			}

			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
			}

			sub := booking.NewSubmitter(directory.New(cfg.DirectoryURL, log), log)
			msg, err := sub.Submit(context.Background(), providerID, day, slot, token)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, msg)
			return nil
		},
	}

	c.Flags().StringVar(&providerID, "provider", "", "provider id")
	c.Flags().StringVar(&date, "date", "", "booking date YYYY-MM-DD")
	c.Flags().StringVar(&slot, "slot", "", `slot label, e.g. "10:00 AM"`)
	c.Flags().StringVar(&token, "token", "", "directory token (default $DIRECTORY_TOKEN)")
	_ = c.MarkFlagRequired("provider")
	_ = c.MarkFlagRequired("date")
	_ = c.MarkFlagRequired("slot")
	return c
}
