package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iliyamo/movie-catalog/internal/client"
)

var errNoSession = errors.New("not logged in: run catalogctl login")

func (a *app) sessionPath() string { return filepath.Join(a.home, "session.json") }

func loadSession(path string) (client.Session, error) {
	var s client.Session
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(b, &s)
	return s, err
}

// saveSession writes the session readable by the owner only.
func saveSession(path string, s client.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func (a *app) requireSession() (client.Session, error) {
	s := a.api.Session()
	if s.Token == "" {
		return s, errNoSession
	}
	return s, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.api.Register(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println("registered; now run: catalogctl login -email", *email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := saveSession(a.sessionPath(), s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("logged in as %s (%s)\n", s.Email, s.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	err := a.api.Logout(ctx)
	if rmErr := os.Remove(a.sessionPath()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return rmErr
	}
	return err
}

func (a *app) whoami() error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s id=%s\n", s.Name, s.Email, s.Role, s.UserID)
	return nil
}
