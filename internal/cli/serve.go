package cli

import (
	"github.com/sovanreach/weekplan/internal/server"
)

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	return server.New(cfg, ctx.Logger).Run()
}
