package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/secondbrain/brain-server/internal/di/providers"
	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/dto"
	"github.com/secondbrain/brain-server/internal/service"
)

func newUsersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(opts, func(i do.Injector) error {
				st := do.MustInvoke[*providers.StoreHandle](i)

				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}

				views := make([]dto.User, len(users))
				for n, u := range users {
					views[n] = dto.NewUser(u)
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), views)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
				for _, u := range views {
					fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
}

func newTagsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(opts, func(i do.Injector) error {
				tags, err := do.MustInvoke[*service.TagService](i).ListTags(cmd.Context())
				if err != nil {
					return err
				}

				views := dto.NewTags(tags)
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), views)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE")
				for _, t := range views {
					fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Title)
				}
				return w.Flush()
			})
		},
	}
}

func newContentCmd(opts *globalOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "content",
		Short: "List content, for one user or for everyone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(opts, func(i do.Injector) error {
				ctx := cmd.Context()
				st := do.MustInvoke[*providers.StoreHandle](i)
				contents := do.MustInvoke[*service.ContentService](i)

				var owners []*domain.User
				if username != "" {
					u, err := st.GetUserByUsername(ctx, username)
					if err != nil {
						return fmt.Errorf("user %q: %w", username, err)
					}
					owners = []*domain.User{u}
				} else {
					var err error
					if owners, err = st.ListUsers(ctx); err != nil {
						return fmt.Errorf("list users: %w", err)
					}
				}

				var items []dto.Content
				for _, owner := range owners {
					list, err := contents.List(ctx, owner.ID)
					if err != nil {
						return err
					}
					items = append(items, list...)
				}

				if opts.jsonOutput {
					if items == nil {
						items = []dto.Content{}
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tOWNER\tTYPE\tTITLE\tLINK\tTAGS")
				for _, c := range items {
					titles := make([]string, len(c.Tags))
					for n, t := range c.Tags {
						titles[n] = t.Title
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						c.ID, c.Owner.Username, c.Type, c.Title, c.Link, strings.Join(titles, ","))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "only list content owned by this username")

	return cmd
}
