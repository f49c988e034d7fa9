package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/slotbook/internal/config"
	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/logging"
	"github.com/example/slotbook/internal/schedule"
)

func newProvidersCmd() *cobra.Command {
	var date string

	c := &cobra.Command{
		Use:   "providers",
		Short: "List providers from the directory",
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

			ctx := context.Background()
			ps, err := directory.New(cfg.DirectoryURL, log).Providers(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			day := now
			if date != "" {
				day, err = time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
				}
			}

			for _, p := range ps {
				open := schedule.FilterAvailable(p.AvailableSlots, day, now)
				fmt.Fprintf(os.Stdout, "id=%s name=%q speciality=%q fee=%.2f slots[%s]=%s\n",
					p.ID, p.Name, p.Speciality, p.Fee,
					schedule.EncodeDateKey(day), strings.Join(open, ","))
			}
			return nil
		},
	}

	c.Flags().StringVar(&date, "date", "", "day to filter slots for (YYYY-MM-DD, default today)")
	return c
}
