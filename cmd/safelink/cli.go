package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bryanwahyu/safelink/internal/application/view"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/middleware"
)

type viewFlags struct {
	analysis  bool
	technical bool
}

func (f *viewFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.analysis, "analysis", false, "expand the analysis details")
	fs.BoolVar(&f.technical, "technical", false, "expand the technical data")
}

func (f viewFlags) apply(vs *view.ViewState) {
	if f.analysis {
		vs.ToggleAnalysis()
	}
	if f.technical {
		vs.ToggleTechnical()
	}
}

// terminalOpener shows the view on stdout instead of a popup window
type terminalOpener struct {
	views *view.Service
	flags viewFlags
	out   io.Writer
}

func (o terminalOpener) Open(ctx context.Context, w domain.Window) error {
	sess, err := o.views.Open(ctx, w)
	if err != nil {
		return err
	}
	defer o.views.Close(sess.ID)
	o.flags.apply(sess.State)
	return view.WriteText(o.out, sess.State)
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	var vf viewFlags
	vf.register(fs)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	link := middleware.SanitizeString(fs.Arg(0))
	if err := middleware.ValidateLinkURL(link); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	a.scans.Opener = terminalOpener{views: a.views, flags: vf, out: os.Stdout}

	out, err := a.scans.Scan(ctx, link)
	if err != nil {
		return err
	}
	if out.Failed() && !out.Opened {
		fmt.Fprintf(os.Stderr, "scan %s failed (%s): %v\nthe fallback result was stored; run `safelink view` to see it\n",
			out.ScanID, out.ErrorKind, out.Err)
	}
	return nil
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	var vf viewFlags
	vf.register(fs)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return terminalOpener{views: a.views, flags: vf, out: os.Stdout}.
		Open(ctx, domain.Window{Width: cfg.View.Width, Height: cfg.View.Height})
}
