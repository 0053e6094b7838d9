package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/submission"
)

var getMultiline = GetMultiline

// List renders the cached collection without touching the network.
func (a *App) List(ctx context.Context) error {
	a.renderCollection(a.ctl.State().Collection)
	return nil
}

// Refresh re-fetches the collection and renders it. On failure the
// previous collection is rendered.
func (a *App) Refresh(ctx context.Context) error {
	err := a.ctl.OnLoadEntries(ctx)
	if err != nil {
		a.report(ctx, err)
	}
	a.renderCollection(a.ctl.State().Collection)
	return err
}

// Add prompts for a new variety and submits it.
func (a *App) Add(ctx context.Context) error {
	var fields models.VarietyFields
	var err error

	if fields.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if fields.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if fields.Origin, err = getSimpleText(a.reader, "Origin", a.out); err != nil {
		return err
	}

	colors := make([]string, len(models.Colors))
	for i, c := range models.Colors {
		colors[i] = string(c)
	}
	color, err := getSimpleText(a.reader, fmt.Sprintf("Color (%s; default %s)", strings.Join(colors, ", "), models.DefaultColor), a.out)
	if err != nil {
		return err
	}
	fields.Color = models.Color(color)

	if fields.BestFor, err = getSimpleText(a.reader, "Best for", a.out); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Image file (optional)", a.out)
	if err != nil {
		return err
	}
	attachment, err := readAttachment(path)
	if err != nil {
		a.println("Cannot read image:", err)
		return err
	}

	if err := a.ctl.OnCreateEntry(ctx, fields, attachment); err != nil {
		a.report(ctx, err)
		return err
	}

	a.println("Variety added")
	a.renderCollection(a.ctl.State().Collection)
	return nil
}

// readAttachment loads the file at path; an empty path means no image.
func readAttachment(path string) (*submission.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &submission.Attachment{Filename: filepath.Base(path), Data: data}, nil
}
