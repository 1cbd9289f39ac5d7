package launcher

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

const clipTimeout = 3 * time.Second

// CliphistClipboard recalls history through the cliphist tool. When the tool
// is not installed every search returns nothing instead of an error.
type CliphistClipboard struct {
	binary string
}

func NewCliphistClipboard() *CliphistClipboard {
	path, _ := exec.LookPath("cliphist")
	return &CliphistClipboard{binary: path}
}

func (c *CliphistClipboard) Search(ctx context.Context, subQuery string) []ClipEntry {
	if c.binary == "" {
		return nil
	}
	out, err := utils.RunCapture(ctx, clipTimeout, c.binary, "list")
	if err != nil || out == "" {
		return nil
	}
	sub := strings.ToLower(strings.TrimSpace(subQuery))
	var entries []ClipEntry
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// cliphist list emits: ID \t content
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		preview := strings.TrimSpace(parts[1])
		if preview == "" {
			continue
		}
		if sub != "" && !strings.Contains(strings.ToLower(preview), sub) {
			continue
		}
		entries = append(entries, ClipEntry{
			ID:      parts[0],
			Preview: utils.Truncate(preview, 160),
		})
	}
	return entries
}
