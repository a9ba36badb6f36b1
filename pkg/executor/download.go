package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/arthur-debert/enzyme/pkg/types"
)

func (e *Executor) download(ctx context.Context, step types.DownloadStep) error {
	ctx, cancel := withTimeout(ctx, e.downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, step.URL, nil)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", step.URL, err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", step.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download failed with status %s", resp.Status)
	}

	if err := filesystem.EnsureParent(e.fs, step.Dest); err != nil {
		return fmt.Errorf("creating parent of %s: %w", step.Dest, err)
	}

	out, err := e.fs.OpenFile(step.Dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating destination file %s: %w", step.Dest, err)
	}
	n, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", step.URL, err)
	}

	e.logger.Debug().Str("url", step.URL).Str("dest", step.Dest).Int64("bytes", n).Msg("Downloaded")
	return nil
}
