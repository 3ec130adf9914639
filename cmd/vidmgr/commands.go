package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/catalog"
	"github.com/user/video-manager-go/internal/model"
	"github.com/user/video-manager-go/internal/server"
)

type command struct {
	run func(ctx context.Context, a *app, args []string) int
}

var commands = map[string]command{
	"list":   {run: listCmd},
	"search": {run: searchCmd},
	"show":   {run: showCmd},
	"add":    {run: addCmd},
	"update": {run: updateCmd},
	"delete": {run: deleteCmd},
	"play":   {run: playCmd},
	"serve":  {run: serveCmd},
}

// videoFlags are the editable fields shared by add and update
type videoFlags struct {
	title, url, duration, category string
}

func (vf *videoFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&vf.title, "title", "", "video title")
	fs.StringVar(&vf.url, "url", "", "video link")
	fs.StringVar(&vf.duration, "duration", "", "free-form duration, e.g. 12:34")
	fs.StringVar(&vf.category, "category", "", "optional category")
}

// apply copies the flags that were set on the command line onto in
func (vf *videoFlags) apply(fs *flag.FlagSet, in *model.VideoInput) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = vf.title
		case "url":
			in.URL = vf.url
		case "duration":
			in.Duration = vf.duration
		case "category":
			in.Category = model.StringPtr(vf.category)
		}
	})
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// notice prints a user-facing failure and returns the failure exit code
func notice(a *app, op string, err error) int {
	fmt.Fprintf(a.stderr, "Error: %s\n", catalog.Notice(op, err))
	return 1
}

// parse lets flags appear before or after positional arguments
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func parseIDArg(a *app, name string, positional []string) (uint, bool) {
	if len(positional) != 1 {
		fmt.Fprintf(a.stderr, "%s: exactly one video id is required\n", name)
		return 0, false
	}
	id, err := strconv.ParseUint(positional[0], 10, 64)
	if err != nil || id == 0 {
		fmt.Fprintf(a.stderr, "%s: invalid video id %q\n", name, positional[0])
		return 0, false
	}
	return uint(id), true
}

func writeList(a *app, videos []*model.Video, sortBy string, desc bool) int {
	if sortBy != "" {
		if err := catalog.SortVideos(videos, sortBy, desc); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 2
		}
	}
	if err := catalog.WriteTable(a.stdout, videos); err != nil {
		log.Error().Err(err).Msg("Failed to write table")
		return 1
	}
	return 0
}

func listCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "list")
	sortBy := fs.String("sort", "", "sort by column (id, title, url, duration, category, views, created_at)")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	videos, err := a.catalog.List(ctx)
	if err != nil {
		return notice(a, "list", err)
	}
	return writeList(a, videos, *sortBy, *desc)
}

func searchCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "search")
	sortBy := fs.String("sort", "", "sort by column")
	desc := fs.Bool("desc", false, "sort descending")
	positional, err := parse(fs, args)
	if err != nil {
		return 2
	}

	query := strings.Join(positional, " ")
	videos, err := a.catalog.Search(ctx, query)
	if err != nil {
		return notice(a, "search", err)
	}
	return writeList(a, videos, *sortBy, *desc)
}

func showCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "show")
	positional, err := parse(fs, args)
	if err != nil {
		return 2
	}
	id, ok := parseIDArg(a, fs.Name(), positional)
	if !ok {
		return 2
	}

	video, err := a.catalog.Get(ctx, id)
	if err != nil {
		return notice(a, "show", err)
	}
	fmt.Fprintln(a.stdout, catalog.FormatVideoDetail(video))
	return 0
}

func addCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "add")
	var vf videoFlags
	vf.register(fs)
	fetch := fs.Bool("fetch", false, "fill missing title and duration from the video page")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var in model.VideoInput
	vf.apply(fs, &in)

	if *fetch {
		if err := a.catalog.Enrich(ctx, &in); err != nil {
			// Lookup is best effort; validation below reports what is still missing
			log.Warn().Err(err).Str("url", in.URL).Msg("Metadata lookup failed")
			fmt.Fprintf(a.stderr, "Warning: could not look up video page: %v\n", err)
		}
	}

	video, err := a.catalog.Add(ctx, in)
	if err != nil {
		return notice(a, "add", err)
	}
	fmt.Fprintf(a.stdout, "Video added successfully! (id %d)\n", video.ID)
	return 0
}

func updateCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "update")
	var vf videoFlags
	vf.register(fs)
	clearCategory := fs.Bool("clear-category", false, "remove the category")
	positional, err := parse(fs, args)
	if err != nil {
		return 2
	}
	id, ok := parseIDArg(a, fs.Name(), positional)
	if !ok {
		return 2
	}

	// Prefill from the stored record, like an edit dialog
	current, err := a.catalog.Get(ctx, id)
	if err != nil {
		return notice(a, "update", err)
	}
	in := model.InputOf(current)
	vf.apply(fs, &in)
	if *clearCategory {
		in.Category = nil
	}

	affected, err := a.catalog.Update(ctx, id, in)
	if err != nil {
		return notice(a, "update", err)
	}
	if affected == 0 {
		fmt.Fprintln(a.stderr, "Error: No such video")
		return 1
	}
	fmt.Fprintln(a.stdout, "Video updated successfully!")
	return 0
}

func deleteCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	positional, err := parse(fs, args)
	if err != nil {
		return 2
	}
	id, ok := parseIDArg(a, fs.Name(), positional)
	if !ok {
		return 2
	}

	if !*yes && !confirm(a.stdin, a.stdout, "Are you sure you want to delete this video?") {
		fmt.Fprintln(a.stdout, "Cancelled")
		return 0
	}

	affected, err := a.catalog.Delete(ctx, id)
	if err != nil {
		return notice(a, "delete", err)
	}
	if affected == 0 {
		fmt.Fprintln(a.stderr, "Error: No such video")
		return 1
	}
	fmt.Fprintln(a.stdout, "Video deleted successfully")
	return 0
}

func playCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "play")
	positional, err := parse(fs, args)
	if err != nil {
		return 2
	}
	id, ok := parseIDArg(a, fs.Name(), positional)
	if !ok {
		return 2
	}

	url, err := a.catalog.Play(ctx, id)
	if err != nil {
		return notice(a, "play", err)
	}
	fmt.Fprintln(a.stdout, url)
	return 0
}

func serveCmd(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet(a, "serve")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a.catalog.RefreshCount(ctx)
	httpServer := server.NewServer(a.catalog)
	addr := a.cfg.Server.Addr()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	log.Info().Str("addr", addr).Msg("Video manager API started")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			return 1
		}
		return 0
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
		return 1
	}
	log.Info().Msg("HTTP server stopped")
	return 0
}

// confirm asks a yes/no question; anything but y or yes means no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
