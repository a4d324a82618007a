package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sliu810/razorback-investing/internal/adapters/mail"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/summaries/domain"
)

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
<h2>{{.ChannelTitle}} summaries: {{.Start}} to {{.End}}</h2>
{{range .Items}}<h3><a href="{{.URL}}">{{.Title}}</a></h3>
<p><em>{{.Published}}</em></p>
<p style="white-space: pre-wrap">{{.Text}}</p>
{{end}}</body>
</html>
`))

type digestView struct {
	ChannelTitle string
	Start, End   string
	Items        []digestItem
}

type digestItem struct {
	Title     string
	URL       string
	Published string
	Text      string
}

// BuildDigest implements domain.DigestPort
func (s *Service) BuildDigest(ctx context.Context, channelRef string, since, until time.Time) (domain.Digest, error) {
	ch, err := s.Registry.Resolve(ctx, channelRef)
	if err != nil {
		return domain.Digest{}, err
	}

	vids, err := s.windowVideos(ctx, channelRef, since, until)
	if err != nil {
		return domain.Digest{}, err
	}

	d := domain.Digest{
		ID:          uuid.NewString(),
		ChannelID:   ch.ID,
		ChannelName: ch.Name,
		WindowStart: since,
		WindowEnd:   until,
		CreatedAt:   s.now().UTC(),
	}
	if len(vids) == 0 {
		return d, nil
	}

	ids := make([]string, len(vids))
	for i := range vids {
		ids[i] = vids[i].ID
	}
	var items []domain.Item
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		items, err = s.Binder.Bind(q).ByVideoIDs(ctx, ids, s.Cfg.Role, s.Cfg.Task)
		return err
	})
	if err != nil {
		return domain.Digest{}, perr.Wrapf(err, perr.ErrorCodeDB, "digest summaries for %q", channelRef)
	}
	d.VideoCount = len(items)
	if d.Empty() {
		return d, nil
	}

	d.HTML, err = renderHTML(ch.Title, since, until, items)
	if err != nil {
		return domain.Digest{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "render digest html")
	}
	d.CSV, err = renderCSV(items)
	if err != nil {
		return domain.Digest{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "render digest csv")
	}
	d.Text = renderText(ch.Title, since, until, items)

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).InsertDigest(ctx, d)
	})
	if err != nil {
		return domain.Digest{}, perr.Wrapf(err, perr.ErrorCodeDB, "store digest for %q", channelRef)
	}
	s.log.Info().
		Str("channel", ch.Name).
		Str("digest_id", d.ID).
		Int("videos", d.VideoCount).
		Msg("summaries: digest built")
	return d, nil
}

// EmailDigest implements domain.DigestPort
func (s *Service) EmailDigest(ctx context.Context, digestID string, to []string) error {
	if len(to) == 0 {
		return perr.InvalidArgf("email recipients are required")
	}

	var d domain.Digest
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		d, ok, err = s.Binder.Bind(q).GetDigest(ctx, digestID)
		return err
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "load digest %q", digestID)
	}
	if !ok {
		return perr.NotFoundf("digest %q not found", digestID)
	}
	if d.Empty() {
		return perr.Conflictf("digest %q is empty", digestID)
	}

	subject := fmt.Sprintf("summaries_%s_%s", d.ChannelName, s.now().UTC().Format("2006-01-02"))
	if err := s.Mail.Send(ctx, mail.Message{To: to, Subject: subject, HTML: d.HTML, Text: d.Text}); err != nil {
		return err
	}
	s.log.Info().Str("digest_id", digestID).Int("recipients", len(to)).Msg("summaries: digest emailed")
	return nil
}

func renderHTML(channelTitle string, since, until time.Time, items []domain.Item) (string, error) {
	view := digestView{
		ChannelTitle: channelTitle,
		Start:        since.Format("2006-01-02"),
		End:          until.Format("2006-01-02"),
		Items:        make([]digestItem, 0, len(items)),
	}
	for _, it := range items {
		view.Items = append(view.Items, digestItem{
			Title:     it.VideoTitle,
			URL:       it.VideoURL,
			Published: it.PublishedAt.UTC().Format("2006-01-02 15:04 MST"),
			Text:      it.Text,
		})
	}
	var sb strings.Builder
	if err := digestTmpl.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderCSV(items []domain.Item) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"video_id", "title", "published_at", "url", "summary"}); err != nil {
		return "", err
	}
	for _, it := range items {
		row := []string{
			it.VideoID,
			it.VideoTitle,
			it.PublishedAt.UTC().Format(time.RFC3339),
			it.VideoURL,
			it.Text,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func renderText(channelTitle string, since, until time.Time, items []domain.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s summaries: %s to %s\n\n",
		channelTitle, since.Format("2006-01-02"), until.Format("2006-01-02"))
	for _, it := range items {
		sb.WriteString(it.VideoTitle + "\n")
		sb.WriteString(it.VideoURL + "\n\n")
		sb.WriteString(it.Text + "\n\n")
	}
	return sb.String()
}
