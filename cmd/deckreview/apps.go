// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/apps.go
// Summary: Application commands: list, show, set, create, upload and action.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/editor"
	"github.com/framegrace/deckreview/notify"
	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/section"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

func (c *cli) listCommand() *cobra.Command {
	var status, search, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications with status metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			list, err := client.ListApplications(cmd.Context(), backend.ListOptions{
				Status: application.Status(status),
				Search: search,
			})
			if err != nil {
				return err
			}
			rows, err := application.SummarizeAll(list, c.now())
			if err != nil {
				return err
			}
			p := c.printer()
			if format != formatText {
				return p.data(format, rows)
			}
			m := application.ComputeMetrics(rows)
			p.println(fmt.Sprintf("%s %d   %s %d   %s %d",
				p.label.Render("Total Applications:"), m.Total,
				p.label.Render("Pending Review:"), m.Submitted,
				p.label.Render("Completed:"), m.Completed))
			if len(rows) == 0 {
				p.println(p.muted.Render("No pitch deck applications found."))
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.ID, r.CompanyName, r.Contact(), r.Email(), r.Status.Label(), r.ScoreText(), r.SubmittedAt})
			}
			p.table([]string{"ID", "Company", "Contact Name", "Contact Email", "Status", "Score", "Submission Date"}, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(application.StatusAll), "filter by status: all, submitted or completed")
	cmd.Flags().StringVar(&search, "search", "", "filter by company name")
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func (c *cli) showCommand() *cobra.Command {
	var format, key string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an application's evaluation and raw extracted data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			v, err := client.GetApplication(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d, err := application.ParseDetail(v)
			if err != nil {
				return err
			}
			p := c.printer()
			if key != "" {
				sec, ok := d.Raw.Lookup(key)
				if !ok {
					return apperrors.Newf(apperrors.KindNotFound, "show section", "no raw section %q", key)
				}
				if format != formatText {
					return p.value(format, sec)
				}
				p.println(p.title.Render(render.Label(key)))
				p.lines(render.Lines(render.Render(sec)), 1)
				return nil
			}
			if format != formatText {
				return p.value(format, v)
			}
			c.printDetail(p, d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	cmd.Flags().StringVar(&key, "section", "", "only print this raw data section")
	return cmd
}

func (c *cli) printDetail(p *printer, d application.Detail) {
	p.println(p.title.Render(d.StartupName))
	p.field("Status", d.Status.Label())
	p.field("Score", d.ScoreText())
	p.field("Contact", d.Contact())
	p.field("Email", d.Email())
	p.field("Website", d.Website())
	p.field("Last updated", d.LastUpdatedText(c.now()))

	p.section("Summary")
	p.println("  " + d.SummaryText())

	p.section("Scores")
	for _, dim := range application.Dimensions {
		name := fmt.Sprintf("  %-10s", application.DimensionTitle(dim))
		res, ok := d.Result(dim)
		if !ok {
			p.println(name + " " + p.muted.Render(application.NotComputedText+" · "+application.EvaluationPendingText))
			continue
		}
		style := p.bad
		switch application.BandOf(res.Score) {
		case application.BandStrong:
			style = p.good
		case application.BandModerate:
			style = p.warn
		}
		line := name + " " + style.Render(tree.FormatNumber(res.Score)+"/10") +
			"  " + tree.FormatNumber(res.ConfidenceScore) + "% confidence"
		if res.Bucket != "" {
			line += "  " + res.Bucket
		}
		if res.ManualCheck {
			line += "  " + p.warn.Render("Manual check required")
		}
		p.println(line)
	}

	if d.HasEnriched() {
		p.section("Enriched Data")
		for _, dim := range application.EnrichedOrder {
			sec, ok := d.Enriched.Lookup(dim)
			if !ok {
				continue
			}
			p.println("  " + p.label.Render(application.DimensionTitle(dim)+" (Enriched)"))
			p.lines(render.Lines(render.Render(sec)), 2)
		}
	}

	p.section("Raw Extracted Data")
	p.lines(render.Lines(render.Render(d.Raw)), 1)

	p.section(fmt.Sprintf("Issues & Action Items (%d)", len(d.Issues)))
	if len(d.Issues) == 0 {
		p.println("  " + p.muted.Render("No issues found"))
	}
	for _, issue := range d.Issues {
		p.println("  • " + issue)
	}
}

func (c *cli) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <path> <value>...",
		Short: "Edit one raw data field",
		Long: `Edit one raw data field and save the section.

The path starts with the section name, e.g. founders[0].name or
market.tam. List fields take one item per value argument; other fields
join the arguments with spaces. Yes/No fields accept "Yes" or "No".`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			path, err := tree.ParsePath(args[1])
			if err != nil {
				return apperrors.New(apperrors.KindValidation, "parse path", err)
			}
			if len(path) == 0 || path[0].IsIndex() {
				return apperrors.Newf(apperrors.KindValidation, "parse path", "path must start with a section name")
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			v, err := client.GetApplication(ctx, id)
			if err != nil {
				return err
			}
			d, err := application.ParseDetail(v)
			if err != nil {
				return err
			}
			p := c.printer()
			ctrl := section.New(d.Raw, func(ctx context.Context, doc tree.Value) error {
				return client.SaveRaw(ctx, id, doc)
			}, section.WithNotifier(notify.Func(func(n notify.Notice) {
				if n.Severity == notify.SeverityInfo {
					p.println(p.good.Render(n.Title+": ") + n.Description)
				}
			})))
			if err := ctrl.BeginEdit(path[0].Name()); err != nil {
				return err
			}
			working, _ := ctrl.WorkingCopy()
			f, ok := editor.Find(editor.Build(working, nil), path[1:])
			if !ok {
				_ = ctrl.CancelEdit()
				return apperrors.Newf(apperrors.KindNotFound, "find field", "no field at %s", path)
			}
			if !f.Editable() {
				_ = ctrl.CancelEdit()
				return apperrors.Newf(apperrors.KindValidation, "find field", "%s is a %s and cannot be set directly", path, f.Kind)
			}
			sep := " "
			if f.Kind == editor.KindLines {
				sep = "\n"
			}
			if err := editor.Apply(ctrl, f, strings.Join(args[2:], sep)); err != nil {
				_ = ctrl.CancelEdit()
				return err
			}
			klog.FromContext(ctx).V(2).Info("Saving raw field", "id", id, "path", path.String())
			return ctrl.CommitEdit(ctx)
		},
	}
}

func (c *cli) createCommand() *cobra.Command {
	var form validate.NewApplication
	var deckPath string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an application from a pitch deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deckPath != "" {
				deck, err := validate.ReadDeck(deckPath)
				if err != nil {
					return err
				}
				form.Deck = &deck
			}
			if err := validate.Application(form).Err("create application"); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			created, err := client.CreateApplication(cmd.Context(), form.Trimmed())
			if err != nil {
				return err
			}
			p := c.printer()
			p.println(p.good.Render("Application created successfully"))
			if id := created.Field("id").Text(); id != "" {
				p.field("ID", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&form.StartupName, "startup", "", "startup name")
	cmd.Flags().StringVar(&form.ContactName, "contact", "", "contact person name")
	cmd.Flags().StringVar(&form.ContactEmail, "email", "", "contact email")
	cmd.Flags().StringVar(&form.WebsiteURL, "website", "", "website URL")
	cmd.Flags().StringVar(&deckPath, "deck", "", "pitch deck PDF, max 10MB")
	return cmd
}

func (c *cli) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <deck.pdf>",
		Short: "Replace an application's pitch deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := validate.ReadDeck(args[1])
			if err != nil {
				return err
			}
			if msg := validate.DeckError(&deck); msg != "" {
				return validate.Errors{validate.FieldFile: msg}.Err("upload pitch deck")
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			if _, err := client.UploadDeck(cmd.Context(), args[0], deck); err != nil {
				return err
			}
			p := c.printer()
			p.println(p.good.Render("Pitch deck updated successfully") + " " + p.muted.Render("("+deck.SizeText()+")"))
			return nil
		},
	}
}

func (c *cli) actionCommand() *cobra.Command {
	names := make([]string, len(application.Actions))
	for i, a := range application.Actions {
		names[i] = string(a)
	}
	return &cobra.Command{
		Use:       "action <id> <" + strings.Join(names, "|") + ">",
		Short:     "Trigger a processing action on the backend",
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := application.ParseAction(args[1])
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			p := c.printer()
			fmt.Fprintln(c.errOut, action.Progress())
			if _, err := client.Trigger(cmd.Context(), args[0], action); err != nil {
				return fmt.Errorf("%s: %w", action.Failed(), err)
			}
			p.println(p.good.Render(action.Completed()))
			return nil
		},
	}
}
