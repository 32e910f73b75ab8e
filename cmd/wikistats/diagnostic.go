package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/wikistats/internal/target"
	"github.com/nao1215/wikistats/internal/wiki"
)

// listRevisions writes one line per revision of title on the configured
// site to w: revision id, timestamp and age.
func (r *runner) listRevisions(ctx context.Context, w io.Writer, title string) error {
	site := r.cfg.ContentSite()
	page, err := r.content.ResolvePage(ctx, site, target.NormalizeTitle(title))
	if err != nil {
		return fmt.Errorf("resolve %q on %s: %w", title, site, err)
	}
	if page.Missing {
		return fmt.Errorf("%q on %s: %w", title, site, wiki.ErrPageNotFound)
	}

	revisions, err := r.content.Revisions(ctx, page)
	if err != nil {
		return fmt.Errorf("revisions of %s: %w", page, err)
	}

	for _, rev := range revisions {
		if _, err := fmt.Fprintf(w, "%d %s (%s)\n",
			rev.ID, rev.Timestamp.UTC().Format(time.RFC3339), humanize.Time(rev.Timestamp)); err != nil {
			return err
		}
	}
	r.logger.Debug("listed revisions", "page", page.String(), "count", len(revisions))
	return nil
}
