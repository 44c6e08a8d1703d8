package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sovanreach/weekplan/internal/storage"
	"github.com/sovanreach/weekplan/internal/syncclient"
)

const syncTimeout = 30 * time.Second

type SyncRegisterCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `arg:"" help:"Account password."`
}

func (c *SyncRegisterCmd) Run(ctx *Context) error {
	cctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	client := syncclient.New(ctx.ServerURL)
	if err := client.Register(cctx, c.Username, c.Password); err != nil {
		return err
	}

	fmt.Printf("Registered %s on %s\n", c.Username, ctx.ServerURL)
	return nil
}

type SyncLoginCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `arg:"" help:"Account password."`
}

func (c *SyncLoginCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	client := syncclient.New(ctx.ServerURL)
	result, err := client.Login(cctx, c.Username, c.Password)
	if err != nil {
		return err
	}

	// The token lives alongside the schedule data so push/pull can reuse it.
	// Values are stored JSON-encoded like every other key.
	tokenJSON, _ := json.Marshal(result.Token)
	if err := ctx.Provider.Set(storage.KeyAuthToken, tokenJSON); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	userJSON, _ := json.Marshal(result.UserID)
	if err := ctx.Provider.Set(storage.KeyAuthUserID, userJSON); err != nil {
		return fmt.Errorf("failed to save user id: %w", err)
	}

	fmt.Println("Login successful")
	return nil
}

type SyncPushCmd struct{}

func (c *SyncPushCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	client, err := authedClient(ctx)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if err := client.SaveSchedule(cctx, store.WeekSchedule()); err != nil {
		return err
	}

	fmt.Println("Pushed week schedule to server")
	return nil
}

type SyncPullCmd struct{}

func (c *SyncPullCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	client, err := authedClient(ctx)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	week, err := client.FetchSchedule(cctx)
	if err != nil {
		return err
	}
	if week == nil {
		fmt.Println("No schedule saved on server")
		return nil
	}

	if err := store.ImportWeekSchedule(*week); err != nil {
		return err
	}

	fmt.Println("Pulled week schedule from server")
	return nil
}

func authedClient(ctx *Context) (*syncclient.Client, error) {
	raw, err := ctx.Provider.Get(storage.KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("not logged in, run 'weekplan sync login' first")
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		return nil, fmt.Errorf("stored token is unreadable, run 'weekplan sync login' again")
	}

	client := syncclient.New(ctx.ServerURL)
	client.SetToken(token)
	return client, nil
}
