package window

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bryanwahyu/safelink/internal/application/view"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

// Launcher is the view surface: it opens a view session and, when a command
// is configured, starts it pointed at the session URL.
//
// Command arguments may use the placeholders {url}, {width} and {height},
// e.g. ["chromium", "--app={url}", "--window-size={width},{height}"].
type Launcher struct {
	Views   *view.Service
	BaseURL string
	Command []string

	start func(ctx context.Context, name string, args ...string) error
}

func NewLauncher(views *view.Service, baseURL string, command []string) *Launcher {
	return &Launcher{Views: views, BaseURL: strings.TrimRight(baseURL, "/"), Command: command}
}

func (l *Launcher) Open(ctx context.Context, w domain.Window) error {
	sess, err := l.Views.Open(ctx, w)
	if err != nil {
		return fmt.Errorf("open view: %w", err)
	}
	url := fmt.Sprintf("%s/v1/views/%s", l.BaseURL, sess.ID)
	log.Printf("view opened: id=%s scan=%s url=%s size=%dx%d", sess.ID, sess.ScanID, url, w.Width, w.Height)

	if len(l.Command) == 0 {
		return nil
	}
	args := expand(l.Command, url, w)
	start := l.start
	if start == nil {
		start = startDetached
	}
	if err := start(ctx, args[0], args[1:]...); err != nil {
		return fmt.Errorf("launch %s: %w", args[0], err)
	}
	return nil
}

func expand(command []string, url string, w domain.Window) []string {
	r := strings.NewReplacer(
		"{url}", url,
		"{width}", strconv.Itoa(w.Width),
		"{height}", strconv.Itoa(w.Height),
	)
	out := make([]string, len(command))
	for i, c := range command {
		out[i] = r.Replace(c)
	}
	return out
}

// startDetached runs the browser without waiting for it; the window outlives the scan.
func startDetached(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("view window exited: cmd=%s err=%v", name, err)
		}
	}()
	return nil
}
