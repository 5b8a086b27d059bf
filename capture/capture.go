// Package capture saves snapshots of the thermal image by running an
// external capture command.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// PathToken is replaced by the snapshot path in each command argument.
const PathToken = "{path}"

// Capturer runs Command to write a snapshot into OutputFolder.
type Capturer struct {
	Command      []string
	OutputFolder string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Filename returns the snapshot file name for time t.
func Filename(t time.Time) string {
	return "pic_" + t.Format("2006-01-02_15-04-05") + ".jpg"
}

// Snapshot runs the capture command and returns the path it wrote to.
func (c Capturer) Snapshot(ctx context.Context) (string, error) {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return "", errors.New("capture: no command configured")
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	path := filepath.Join(c.OutputFolder, Filename(now()))

	args := make([]string, len(c.Command)-1)
	for i, a := range c.Command[1:] {
		args[i] = strings.ReplaceAll(a, PathToken, path)
	}

	cmd := exec.CommandContext(ctx, c.Command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("capture: %s failed: %w: %s", c.Command[0], err, strings.TrimSpace(string(out)))
	}
	return path, nil
}
