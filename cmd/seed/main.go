package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/expeditionrm/revenue-studio/internal/config"
	"github.com/expeditionrm/revenue-studio/internal/generator"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
	"github.com/expeditionrm/revenue-studio/internal/storage"
)

const defaultFetchWorkers = 4

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory holding the snapshot tables",
		Value:   "./data",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Produce or fetch the booking snapshot tables",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate synthetic sailings and bookings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "as-of",
						Usage:    "Generation cutoff date (YYYY-MM-DD); bookings after it are not emitted",
						Required: true,
						EnvVars:  []string{"ANALYSIS_DATE"},
					},
					&cli.Int64Flag{
						Name:    "seed",
						Usage:   "RNG seed; the same seed reproduces the same tables",
						Value:   42,
						EnvVars: []string{"GENERATOR_SEED"},
					},
					newDataDirFlag(),
				},
				Action: runGenerate,
			},
			{
				Name:  "fetch",
				Usage: "Download snapshot CSVs from S3-compatible storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "endpoint",
						Usage:    "Storage endpoint",
						Required: true,
						EnvVars:  []string{"STORAGE_ENDPOINT"},
					},
					&cli.StringFlag{
						Name:     "access-key",
						Usage:    "Storage access key",
						Required: true,
						EnvVars:  []string{"STORAGE_ACCESS_KEY"},
					},
					&cli.StringFlag{
						Name:     "secret-key",
						Usage:    "Storage secret key",
						Required: true,
						EnvVars:  []string{"STORAGE_SECRET_KEY"},
					},
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Bucket holding the snapshot tables",
						Required: true,
						EnvVars:  []string{"STORAGE_BUCKET"},
					},
					&cli.StringFlag{
						Name:    "region",
						Usage:   "Bucket region",
						EnvVars: []string{"STORAGE_REGION"},
					},
					&cli.StringFlag{
						Name:    "prefix",
						Usage:   "Object key prefix to fetch from",
						Value:   "snapshots/",
						EnvVars: []string{"STORAGE_PREFIX"},
					},
					&cli.BoolFlag{
						Name:    "use-ssl",
						Usage:   "Connect over TLS (a scheme on the endpoint wins)",
						Value:   true,
						EnvVars: []string{"STORAGE_USE_SSL"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Parallel downloads",
						Value: defaultFetchWorkers,
					},
					newDataDirFlag(),
				},
				Action: runFetch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	asOf, err := config.ParseAnalysisDate(c.String("as-of"))
	if err != nil {
		return err
	}
	dataDir := c.String("data-dir")

	log.Printf("Generating synthetic snapshot (seed %d, cutoff %s)...",
		c.Int64("seed"), asOf.Format("2006-01-02"))

	sailings, bookings := generator.New(c.Int64("seed")).Generate(asOf)

	sailingsPath := filepath.Join(dataDir, snapshot.SailingsFile)
	if err := snapshot.WriteSailings(sailingsPath, sailings); err != nil {
		return fmt.Errorf("write sailings table: %w", err)
	}
	bookingsPath := filepath.Join(dataDir, snapshot.BookingsFile)
	if err := snapshot.WriteBookings(bookingsPath, bookings); err != nil {
		return fmt.Errorf("write bookings table: %w", err)
	}

	log.Printf("Wrote %d sailings to %s", len(sailings), sailingsPath)
	log.Printf("Wrote %d bookings to %s", len(bookings), bookingsPath)
	return nil
}

func runFetch(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.StorageConfig{
		Endpoint:  c.String("endpoint"),
		AccessKey: c.String("access-key"),
		SecretKey: c.String("secret-key"),
		Bucket:    c.String("bucket"),
		Region:    c.String("region"),
		UseSSL:    c.Bool("use-ssl"),
	})
	if err != nil {
		return err
	}

	prefix := strings.TrimSpace(c.String("prefix"))
	dataDir := c.String("data-dir")

	objects, err := client.ListObjects(c.Context, prefix)
	if err != nil {
		return fmt.Errorf("list snapshot objects under %q: %w", prefix, err)
	}
	keys := csvKeys(objects)
	if len(keys) == 0 {
		return fmt.Errorf("no CSV files found under prefix %q", prefix)
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(workers)

	downloaded := make([]string, len(keys))
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			localPath := filepath.Join(dataDir, objectRelativePath(prefix, key))
			if err := client.DownloadObject(ctx, key, localPath); err != nil {
				return err
			}
			downloaded[i] = localPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Strings(downloaded)
	for _, path := range downloaded {
		log.Printf("Fetched %s", path)
	}
	log.Printf("Fetched %d snapshot file(s) into %s", len(downloaded), dataDir)
	return nil
}

// csvKeys keeps the object keys that name CSV files, case-insensitively.
func csvKeys(objects []storage.ObjectInfo) []string {
	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	return keys
}

// objectRelativePath maps an object key to its path under the data dir,
// relative to the fetch prefix.
func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, trimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
