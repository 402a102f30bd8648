// Command catalogctl is a terminal client for the catalog API.  It keeps a
// session and the favorite/watched lists under ~/.catalogctl and prints the
// same derived views the web UI shows: filtered and sorted movie lists,
// filmographies and the dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/client"
	"github.com/iliyamo/movie-catalog/internal/logger"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  register   -name -email -password
  login      -email -password
  logout
  whoami
  movies     [-search -genre -country -from -to -rating-min -rating-max
              -duration-min -duration-max -sort -mine -favorites -watched]
  movie      -id
  directors | actors
  director   -id      (with filmography)
  actor      -id      (with filmography)
  create     director|actor|movie [fields]
  update     director|actor|movie -id [fields]
  delete     director|actor|movie -id
  fav        add|rm|toggle|ls [movie-id] [-remote]
  watched    add|rm|toggle|ls [movie-id] [-remote]
  dashboard  [-remote]

env:
  CATALOG_API_URL   API base (default http://localhost:5000/api)
  CATALOGCTL_HOME   state directory (default ~/.catalogctl)`

// app is the state shared by every command.
type app struct {
	api  *client.Client
	home string
}

func stateDir() (string, error) {
	if d := os.Getenv("CATALOGCTL_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".catalogctl"), nil
}

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_DEBUG") == "true")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	home, err := stateDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalogctl:", err)
		os.Exit(1)
	}
	base := os.Getenv("CATALOG_API_URL")
	if base == "" {
		base = "http://localhost:5000/api"
	}
	a := &app{api: client.New(base, client.DefaultTTL), home: home}
	if s, err := loadSession(a.sessionPath()); err == nil {
		a.api.SetSession(s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "catalogctl:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami()
	case "movies":
		return a.movies(ctx, args)
	case "movie":
		return a.movie(ctx, args)
	case "directors":
		return a.directors(ctx)
	case "actors":
		return a.actors(ctx)
	case "director":
		return a.director(ctx, args)
	case "actor":
		return a.actor(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.remove(ctx, args)
	case "fav":
		return a.list(ctx, "favorites", args)
	case "watched":
		return a.list(ctx, "watched", args)
	case "dashboard":
		return a.dashboard(ctx, args)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	}
	return errUsage
}
