package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/app"
	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/spf13/cobra"
)

type clientFactory func(ctx context.Context, cfg *config.Config) (*app.Client, error)

// newRootCmd builds the heroes CLI. Every subcommand prints its result as JSON followed by
// the message log.
func newRootCmd(cfg *config.Config, newClient clientFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "heroes",
		Short:         "Query and edit the heroes collection through the hero web API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base url of the hero web API")

	// run opens a client, runs fn and prints its result.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, client *app.Client) any) error {
		cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
		client, err := newClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		result := fn(cmd.Context(), client)
		return printResult(cmd.OutOrStdout(), result, client.Messages.Messages())
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all heroes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				return c.Heroes.ListHeroes(ctx)
			})
		},
	}

	var lenient bool
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a hero by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				if lenient {
					return optional(c.Heroes.GetHeroLenient(ctx, id))
				}
				return optional(c.Heroes.GetHero(ctx, id))
			})
		},
	}
	get.Flags().BoolVar(&lenient, "lenient", false, "look the hero up by query so a missing hero is not an error")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a hero",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("name must not be blank")
			}
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				return optional(c.Heroes.AddHero(ctx, domain.Hero{Name: name}))
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a hero",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			hero := domain.Hero{ID: id, Name: strings.Join(args[1:], " ")}
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				c.Heroes.UpdateHero(ctx, hero)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				deleted, ok := c.Heroes.DeleteHero(ctx, domain.ID(id))
				if !ok {
					return nil
				}
				return map[string]int{"deleted": deleted}
			})
		},
	}

	search := &cobra.Command{
		Use:   "search <term>",
		Short: "Find heroes whose name contains term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *app.Client) any {
				return c.Heroes.SearchHeroes(ctx, args[0])
			})
		},
	}

	root.AddCommand(list, get, add, update, del, search)
	return root
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid hero id %q", raw)
	}
	return id, nil
}

// optional maps a (value, ok) pair to the value or nil, so absence prints as null.
func optional(hero domain.Hero, ok bool) any {
	if !ok {
		return nil
	}
	return hero
}

func printResult(w io.Writer, result any, messages []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	for _, m := range messages {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}
