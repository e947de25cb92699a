package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	api "github.com/rpupo63/intern-hub-backend/api"
	"github.com/rpupo63/intern-hub-backend/config"
	"github.com/rpupo63/intern-hub-backend/database"
	"github.com/rpupo63/intern-hub-backend/database/mongodb"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rpupo63/intern-hub-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()
	c, err := loadConfig(ctx, config.New(), config.LoadParameters)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading parameters from SSM")
	}

	dbType := config.GetString(c, "DB_TYPE", "supa")
	log.Info().Str("dbType", dbType).Msg("Connecting to database")

	var currentDB database.Database
	switch dbType {
	case "supa", "postgres":
		db, err := openPostgres(c, dbType)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}

		// If generating models, run generation and exit
		if config.GetBool(c, "GENERATE_MODELS", false) {
			fmt.Println("Generating models and query helpers...")
			models.GenerateModels(db)
			return
		}

		// If generating column mismatch report, run report and exit
		if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
			fmt.Println("Generating column mismatch report...")
			models.GenerateColumnMismatchReportStandalone(db)
			return
		}

		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
		currentDB = database.New(db)
	case "mongo":
		client, db, err := openMongo(ctx, c)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to MongoDB")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		}()
		currentDB = database.NewWithStores(mongodb.NewProjectRepo(client, db), mongodb.NewApplicationRepo(db))
	default:
		log.Fatal().Str("dbType", dbType).Msg("Unsupported DB_TYPE")
	}

	deps, err := buildDependencies(ctx, c, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

type parameterLoader func(ctx context.Context, cfg map[string]string, prefix string) (int, error)

// loadConfig overlays the parameters under SSM_PARAMETER_PATH onto c and then
// sets up logging, so LOG_* values kept in SSM apply.
func loadConfig(ctx context.Context, c map[string]string, load parameterLoader) (map[string]string, error) {
	prefix := config.GetString(c, "SSM_PARAMETER_PATH", "")
	added := 0
	if prefix != "" {
		var err error
		if added, err = load(ctx, c, prefix); err != nil {
			return nil, err
		}
	}

	setupLogging(c)
	if prefix != "" {
		log.Info().Int("count", added).Str("path", prefix).Msg("Loaded parameters from SSM")
	}
	return c, nil
}

func openPostgres(c map[string]string, dbType string) (*gorm.DB, error) {
	connStr := config.GetString(c, "DATABASE_URL", "")
	if dbType == "supa" && connStr == "" {
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	}
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", dbType)
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, err
	}

	// Reads go to the replica when one is configured
	if replica := config.GetString(c, "DB_REPLICA_DSN", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{DSN: replica, PreferSimpleProtocol: true})},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Msg("Read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

func openMongo(ctx context.Context, c map[string]string) (*mongo.Client, *mongo.Database, error) {
	uri := config.GetString(c, "MONGO_URI", "")
	if uri == "" {
		return nil, nil, fmt.Errorf("MONGO_URI is required for DB_TYPE=mongo")
	}
	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(config.GetString(c, "MONGO_DATABASE", "intern_hub"))
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

// buildDependencies wires the optional services. Unconfigured ones stay nil.
func buildDependencies(ctx context.Context, c map[string]string, db database.Database) (api.Dependencies, error) {
	deps := api.Dependencies{Database: db}

	model, err := services.NewSuggestionModel(ctx, c)
	if err != nil {
		return deps, err
	}
	if model != nil {
		deps.Suggester = services.NewSuggester(model)
	} else {
		log.Warn().Msg("No AI provider key set, suggestions are disabled")
	}

	if notifier := services.NewNotifier(c); notifier.Enabled() {
		deps.Notifier = notifier
	}

	if relay := services.NewFormRelay(config.GetString(c, "FORM_RELAY_URL", "")); relay != nil {
		deps.Relay = relay
	}

	images, err := services.NewImageStore(ctx, c)
	if err != nil {
		return deps, err
	}
	if images != nil {
		deps.Images = images
	}

	log.Info().
		Bool("suggestions", deps.Suggester != nil).
		Bool("notifications", deps.Notifier != nil).
		Bool("formRelay", deps.Relay != nil).
		Bool("imageUploads", deps.Images != nil).
		Str("applicationSink", strings.ToLower(config.GetString(c, "APPLICATION_SINK", api.SinkStore))).
		Msg("Services configured")
	return deps, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
