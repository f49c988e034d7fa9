package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/slotbook/internal/config"
	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/logging"
	"github.com/example/slotbook/internal/provider"
)

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage directory providers (admin)",
	}
	cmd.AddCommand(newProviderAddCmd())
	return cmd
}

func newProviderAddCmd() *cobra.Command {
	var (
		name       string
		email      string
		password   string
		experience string
		fee        float64
		about      string
		speciality string
		degree     string
		address1   string
		address2   string
		slots      []string
		imagePath  string
		adminToken string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a new provider with the directory",
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

			if adminToken == "" {
				adminToken = cfg.AdminToken
			}
			if adminToken == "" {
				return fmt.Errorf("admin token required (--admin-token or $ADMIN_TOKEN)")
			}

			var list provider.SlotList
			for _, s := range slots {
				list, err = list.Add(s)
				if err != nil {
					return fmt.Errorf("slot %q: %w", s, err)
				}
			}

			reg := provider.Registration{
				Name:       name,
				Email:      email,
				Password:   password,
				Experience: experience,
				Fee:        fee,
				About:      about,
				Speciality: speciality,
				Degree:     degree,
				Address:    provider.Address{Line1: address1, Line2: address2},
				Slots:      list,
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			img, err := os.Open(imagePath)
			if err != nil {
				return err
			}
			defer img.Close()

			msg, err := directory.New(cfg.DirectoryURL, log).
				AddProvider(context.Background(), reg, img, filepath.Base(imagePath), adminToken)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, msg)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "provider name")
	c.Flags().StringVar(&email, "email", "", "login email")
	c.Flags().StringVar(&password, "password", "", "login password")
	c.Flags().StringVar(&experience, "experience", provider.ExperienceLevels[0], "experience level")
	c.Flags().Float64Var(&fee, "fee", 0, "session fee")
	c.Flags().StringVar(&about, "about", "", "profile blurb")
	c.Flags().StringVar(&speciality, "speciality", provider.Specialities[0], "speciality")
	c.Flags().StringVar(&degree, "degree", "", "qualification")
	c.Flags().StringVar(&address1, "address1", "", "address line 1")
	c.Flags().StringVar(&address2, "address2", "", "address line 2")
	c.Flags().StringArrayVar(&slots, "slot", nil, `bookable slot label, repeatable (e.g. --slot "10:00 AM")`)
	c.Flags().StringVar(&imagePath, "image", "", "path to profile image")
	c.Flags().StringVar(&adminToken, "admin-token", "", "directory admin token (default $ADMIN_TOKEN)")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	_ = c.MarkFlagRequired("degree")
	_ = c.MarkFlagRequired("image")
	return c
}
