package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/mdview/pkg/client"
	"github.com/starford/mdview/pkg/models"
)

var (
	dirColor   = color.New(color.FgBlue, color.Bold)
	fileColor  = color.New(color.FgWhite)
	metaColor  = color.New(color.FgHiBlack)
	titleColor = color.New(color.FgCyan, color.Bold)
	keyColor   = color.New(color.FgYellow)
)

func newClient(cmd *cli.Command) *client.Client {
	return client.New(client.Config{BaseURL: cmd.String("server")})
}

func printTree(ctx context.Context, cmd *cli.Command) error {
	entries, err := newClient(cmd).FetchTree(ctx, cmd.Bool("detailed"))
	if err != nil {
		return fmt.Errorf("fetch tree: %w", err)
	}
	renderTree(os.Stdout, entries, "")
	return nil
}

func printDocument(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("cat: PATH is required")
	}
	c := newClient(cmd)

	if cmd.Bool("raw") {
		data, err := c.FetchRaw(ctx, path)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", path, err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	doc, err := c.FetchDocument(ctx, path)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	return renderDocument(os.Stdout, doc)
}

// renderTree writes entries as an indented tree with box-drawing branches.
func renderTree(w io.Writer, entries []models.Entry, indent string) {
	for i, e := range entries {
		last := i == len(entries)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}

		fmt.Fprint(w, indent+branch)
		if e.IsDir() {
			dirColor.Fprint(w, e.Name+"/")
		} else {
			fileColor.Fprint(w, e.Name)
		}
		if info := describe(e); info != "" {
			metaColor.Fprint(w, "  "+info)
		}
		fmt.Fprintln(w)

		if e.IsDir() {
			renderTree(w, e.Children, indent+next)
		}
	}
}

func describe(e models.Entry) string {
	var parts []string
	if e.Size != nil {
		parts = append(parts, humanSize(*e.Size))
	}
	if e.ItemCount != nil {
		parts = append(parts, fmt.Sprintf("%d items", *e.ItemCount))
	}
	return strings.Join(parts, ", ")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// renderDocument prints the title, front matter keys and body.
func renderDocument(w io.Writer, doc *models.Document) error {
	if doc.Title != "" {
		titleColor.Fprintln(w, doc.Title)
	}
	if len(doc.Metadata) > 0 {
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, err := yaml.Marshal(doc.Metadata[k])
			if err != nil {
				return err
			}
			keyColor.Fprint(w, k+": ")
			fmt.Fprintln(w, strings.TrimSpace(string(v)))
		}
	}
	if doc.Title != "" || len(doc.Metadata) > 0 {
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintln(w, doc.Body)
	return err
}
