package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbeisheim/checkers-backend/internal/ai"
	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/logging"
	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	app := &cli.App{
		Name:  "checkers",
		Usage: "Russian draughts game server and engine tools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "zerolog level (debug, info, warn, error)",
				Value: cfg.LogLevel,
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "AI search depth in plies",
				Value: cfg.AIDepth,
			},
		},
		Before: func(cCtx *cli.Context) error {
			cfg.LogLevel = cCtx.String("log-level")
			cfg.AIDepth = cCtx.Int("depth")
			logging.Configure(cfg.LogLevel, cfg.LogPretty)
			return cfg.Validate()
		},
		Action: func(cCtx *cli.Context) error {
			return serve(cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP and websocket game server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "listen address",
						Value:   cfg.Addr,
					},
				},
				Action: func(cCtx *cli.Context) error {
					cfg.Addr = cCtx.String("addr")
					return serve(cfg)
				},
			},
			{
				Name:  "bestmove",
				Usage: "Print the AI's choice for a saved position",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "board",
						Aliases:  []string{"b"},
						Usage:    "position file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "side to move: white or black",
						Value: string(model.White),
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "print every move tied for best",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return bestMove(cCtx, cfg)
				},
			},
			{
				Name:  "validate",
				Usage: "Check that a position file loads",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "board",
						Aliases:  []string{"b"},
						Usage:    "position file",
						Required: true,
					},
				},
				Action: func(cCtx *cli.Context) error {
					board, err := model.LoadBoardFile(resolveBoard(cfg, cCtx.String("board")))
					if err != nil {
						return err
					}
					fmt.Printf("ok: %d white, %d black\n", board.Count(model.White), board.Count(model.Black))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("checkers")
	}
}

func serve(cfg config.Config) error {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger())

	gameManager := service.NewGameManager(service.ManagerOptions{
		Searcher:            ai.NewSearcher(ai.WithDepth(cfg.AIDepth)),
		AITimeout:           cfg.AITimeout,
		MatchmakingInterval: cfg.MatchmakingInterval,
	})
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	controller.Register(app, gameService, cfg.AllowedOrigins)

	log.Info().Str("addr", cfg.Addr).Int("ai_depth", cfg.AIDepth).Msg("listening")
	return app.Listen(cfg.Addr)
}

func bestMove(cCtx *cli.Context, cfg config.Config) error {
	color := model.Color(cCtx.String("color"))
	if !color.Valid() {
		return fmt.Errorf("unknown color %q", color)
	}
	board, err := model.LoadBoardFile(resolveBoard(cfg, cCtx.String("board")))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cCtx.Context, cfg.AITimeout)
	defer cancel()
	searcher := ai.NewSearcher(ai.WithDepth(cfg.AIDepth))
	candidates, score, err := searcher.BestMoves(ctx, board, color, color.Opponent())
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("skip")
		return nil
	}
	if cCtx.Bool("all") {
		for _, c := range candidates {
			fmt.Printf("%s-%s %s\n", c.From, c.To, score)
		}
		return nil
	}
	choice := searcher.Choose(candidates)
	fmt.Printf("%d %d %d %d\n", choice.From.X, choice.From.Y, choice.To.X, choice.To.Y)
	return nil
}

// resolveBoard looks a bare file name up in the boards directory.
func resolveBoard(cfg config.Config, name string) string {
	if _, err := os.Stat(name); err == nil || cfg.BoardsDir == "" {
		return name
	}
	candidate := filepath.Join(cfg.BoardsDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}
