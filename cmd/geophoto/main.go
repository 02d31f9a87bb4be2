package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sherryumlah/geoPhoto/geophoto/application"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
	"github.com/sherryumlah/geoPhoto/geophoto/geocoding"
	"github.com/sherryumlah/geoPhoto/geophoto/media"
	"github.com/sherryumlah/geoPhoto/geophoto/persistence"
	"github.com/sherryumlah/geoPhoto/internal/config"
	"github.com/sherryumlah/geoPhoto/shared/db"
	"github.com/sherryumlah/geoPhoto/shared/db/sqlite"
	"github.com/sherryumlah/geoPhoto/shared/events"
)

var (
	dbPath      string
	libraryRoot string
	photoDir    string
	albumPrefix string
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "geophoto",
		Short: "Capture and browse location-tagged photos",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "database path")
	rootCmd.PersistentFlags().StringVar(&libraryRoot, "library", cfg.LibraryRoot, "media library root")
	rootCmd.PersistentFlags().StringVar(&photoDir, "photos", cfg.PhotoDir, "app-private photo directory")
	rootCmd.PersistentFlags().StringVar(&albumPrefix, "album-prefix", cfg.AlbumPrefix, "album name prefix")

	rootCmd.AddCommand(captureCmd(cfg))
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(deleteCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles one wired-up instance of the photo stack around an open
// database connection.
type app struct {
	database db.Database
	bus      *events.Bus
	library  *media.Library
	camera   *media.FileCamera
	repo     domain.GeoPhotoRepository
}

func openApp() (*app, error) {
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	bus := events.NewBus()
	library := media.NewLibrary(libraryRoot)

	return &app{
		database: database,
		bus:      bus,
		library:  library,
		camera:   media.NewFileCamera(photoDir),
		repo:     persistence.NewGeoPhotoRepository(database.DB(), bus, media.NewDiskStore(), library, albumPrefix),
	}, nil
}

func (a *app) Close() {
	a.database.Close()
}

func captureCmd(cfg config.Config) *cobra.Command {
	var (
		file string
		lat  float64
		lon  float64
		note string
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a photo at the given coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			var source geocoding.FixSource
			switch {
			case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon"):
				source = geocoding.StaticFixSource(lat, lon, 10.0)
			case cfg.HasFix():
				source = geocoding.StaticFixSource(*cfg.Latitude, *cfg.Longitude, 10.0)
			}

			provider := geocoding.NewProvider(source != nil, source, geocoding.NewClient(cfg.GeocodeEndpoint))
			location := application.NewLocationService(provider)
			location.Refetch(ctx)

			if snap := location.Snapshot(); snap.ErrMsg != "" {
				fmt.Printf("(location unavailable: %s)\n", snap.ErrMsg)
			}

			capture := application.NewCaptureService(a.camera, location, a.library, a.repo, a.bus, albumPrefix)
			a.camera.Stage(file)

			result, err := capture.Capture(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Captured %s\n", result.URI)
			if result.RecordSaved {
				fmt.Printf("Saved as photo %d\n", result.PhotoID)
			}
			for _, warning := range result.Warnings {
				fmt.Printf("  warning: %s\n", warning)
			}

			if strings.TrimSpace(note) != "" {
				capture.SaveNote(ctx, note)
			} else {
				capture.DismissNote()
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "image file to capture")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the capture")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the capture")
	cmd.Flags().StringVar(&note, "note", "", "note to attach to the photo")
	cmd.MarkFlagRequired("file")

	return cmd
}

func listCmd() *cobra.Command {
	var (
		all   bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List photos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			var photos []*domain.GeoPhoto
			if all {
				photos, err = a.repo.ListAll(ctx)
			} else {
				photos, err = a.repo.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(photos) == 0 {
				fmt.Println("No photos yet. Use 'geophoto capture' to take one.")
				return nil
			}

			for _, photo := range photos {
				fmt.Printf("%-6d %s  %s  %s\n",
					photo.ID,
					photo.TakenAt.Format("2006-01-02 15:04"),
					formatPlace(photo),
					photo.URI,
				)
				if photo.Note != nil {
					fmt.Printf("       note: %s\n", *photo.Note)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every photo, skipping the consistency pass")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of photos to show")

	return cmd
}

func noteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note [id] [text]",
		Short: "Attach a note to a photo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid photo id %q", args[0])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			text := strings.Join(args[1:], " ")
			if err := a.repo.UpdateNote(context.Background(), id, text); err != nil {
				return err
			}

			fmt.Printf("Noted photo %d\n", id)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a photo, its file, and its media-library copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid photo id %q", args[0])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			photos, err := a.repo.ListAll(ctx)
			if err != nil {
				return err
			}

			var target *domain.GeoPhoto
			for _, photo := range photos {
				if photo.ID == id {
					target = photo
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no photo with id %d", id)
			}

			result, err := a.repo.DeleteWithAsset(ctx, target)
			if err != nil {
				return err
			}
			if !result.OK {
				return fmt.Errorf("photo %d was kept: %s", id, result.Reason)
			}

			fmt.Printf("Deleted photo %d\n", id)
			return nil
		},
	}
}

func formatPlace(photo *domain.GeoPhoto) string {
	parts := []string{}
	for _, field := range []*string{photo.City, photo.Region, photo.Country} {
		if field != nil {
			parts = append(parts, *field)
		}
	}
	if len(parts) == 0 {
		return "(no location)"
	}
	return strings.Join(parts, ", ")
}
