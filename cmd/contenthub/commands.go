package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"contenthub/internal/cleanup"
	"contenthub/internal/database"
	"contenthub/internal/models"
	"contenthub/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		return db.Close()
	},
}

var seedPreset string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the categories of a preset that do not exist yet",
	Long: "Insert each category of the preset unless one with the same slug exists.\n" +
		"Unlike startup seeding this ignores the seed marker, so deleted categories come back.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, ok := database.Presets[seedPreset]
		if !ok {
			return fmt.Errorf("unknown preset %q (known: %s)", seedPreset, strings.Join(database.PresetNames(), ", "))
		}

		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		categories := store.NewCategoryStore(db)
		created, existing := 0, 0
		for _, c := range cats {
			got, isNew, err := categories.EnsureBySlug(cmd.Context(), c.ID, models.CategoryInput{Name: c.Name, Slug: c.Slug})
			if errors.Is(err, store.ErrDuplicate) {
				slog.Warn("category skipped", "slug", c.Slug, "error", err)
				continue
			}
			if err != nil {
				return err
			}
			if isNew {
				created++
				slog.Info("category created", "name", got.Name, "slug", got.Slug, "id", got.ID)
			} else {
				existing++
				slog.Info("category exists", "name", got.Name, "slug", got.Slug, "id", got.ID)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "preset %s: %d created, %d existing, %d skipped\n", seedPreset, created, existing, len(cats)-created-existing)
		return nil
	},
}

var cleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete uploaded files no post or article references",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		backend, err := newBackend()
		if err != nil {
			return err
		}

		sweeper := cleanup.NewSweeper(backend, cfg.CleanupGrace, store.NewPostStore(db), store.NewNewsStore(db))
		res, err := sweeper.Sweep(cmd.Context(), cleanupDryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range res.Orphans {
			fmt.Fprintln(out, name)
		}
		fmt.Fprintf(out, "scanned %d, orphaned %d, deleted %d\n", res.Scanned, len(res.Orphans), res.Deleted)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var (
	userName     string
	userPassword string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		u, err := store.NewUserStore(db).Create(cmd.Context(), models.UserInput{Username: userName, Password: userPassword})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPreset, "preset", database.DefaultPreset,
		"category preset ("+strings.Join(database.PresetNames(), ", ")+")")

	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "list orphaned files without deleting them")

	userCreateCmd.Flags().StringVar(&userName, "username", "", "login name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "password (min 8 characters)")
	userCreateCmd.MarkFlagRequired("username")
	userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)

	rootCmd.AddCommand(migrateCmd, seedCmd, cleanupCmd, userCmd)
}
