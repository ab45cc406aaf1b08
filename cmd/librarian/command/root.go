package command

// root.go defines the librarian operator CLI. It talks to the database
// directly and is the only way to grant administrator rights.

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bookrental/database"
	"bookrental/internal/config"
	"bookrental/internal/logger"
	"bookrental/internal/middleware/auth"
	"bookrental/internal/microservices/http-api/repository"
	"bookrental/internal/microservices/http-api/service"
)

// success prints confirmations. Color is dropped when stdout is not a terminal.
var success = color.New(color.FgGreen)

// app holds what the subcommands need.
type app struct {
	users repository.UserRepository
	auth  service.AuthService
	books service.BookService
	close func() error

	// inTx runs fn with an app whose repositories share one transaction.
	inTx func(ctx context.Context, fn func(tx *app) error) error
}

// Opener builds the app on first use so that --help works without a database.
type Opener func() (*app, error)

func newApp(db *gorm.DB, cfg *config.Config, hasher *auth.Hasher, out io.Writer) *app {
	log := logger.New(logger.Config{Writer: out, Level: "warn"})
	users := repository.NewUserRepository(db)
	rentals := repository.NewRentalRepository(db)
	a := &app{
		users: users,
		auth:  service.NewAuthService(users, repository.NewSessionRepository(db), hasher, cfg, log),
		books: service.NewBookService(repository.NewBookRepository(db), rentals),
		close: func() error { return database.Close(db) },
	}
	a.inTx = func(ctx context.Context, fn func(tx *app) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(newApp(tx, cfg, hasher, out))
		})
	}
	return a
}

// openFromConfig connects using the same environment as the API server.
func openFromConfig() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.ConnectDB(cfg, logger.New(logger.Config{Writer: os.Stderr, Level: "warn"}))
	if err != nil {
		return nil, err
	}
	return newApp(db, cfg, auth.NewHasher(auth.DefaultParams), os.Stderr), nil
}

// NewRootCommand assembles the command tree around open.
func NewRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "librarian",
		Short: "librarian - book rental operator tool",
		Long: `librarian manages the book rental database directly. Use it to:
- create users, including administrators
- grant or revoke administrator rights
- add books to the catalog and list it

Connection settings come from the same .env / environment as the API server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newUserCommand(open))
	rootCmd.AddCommand(newBookCommand(open))
	return rootCmd
}

// Execute runs the CLI against the configured database.
func Execute() {
	if err := NewRootCommand(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp opens the app for one command run and closes it afterwards.
func withApp(open Opener, run func(a *app) error) error {
	a, err := open()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer a.close()
	return run(a)
}
