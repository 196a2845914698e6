package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/liveview/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем username
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	// Пароль по приоритету: env -> file -> flag -> prompt
	password, err := c.getPassword(c.passwords)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	result, err := c.service.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	session := &storage.Session{
		Username:    username,
		AccessToken: result.AccessToken,
		ServerURL:   c.serverURL,
		ExpiresAt:   time.Now().Unix() + result.ExpiresIn,
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Printf("Access token expires in: %d seconds\n", result.ExpiresIn)

	return nil
}
