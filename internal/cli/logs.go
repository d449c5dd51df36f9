package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/johanforsgren/repobrowser/internal/ui"
)

// LogsCmd prints the last lines of the log file written by earlier runs.
type LogsCmd struct {
	Lines int `help:"Number of lines to print" short:"n" default:"50"`
}

func (l *LogsCmd) Run(cli *CLI) error {
	path := cli.config.LogPath
	if path == "" {
		path = defaultLogPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cli.println(ui.SubtitleStyle.Render("No logs yet"))
			return nil
		}
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	lines, err := tailLines(f, l.Lines)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	for _, line := range lines {
		if strings.Contains(line, "[ERROR]") {
			line = ui.ErrorStyle.Render(line)
		}
		cli.println(line)
	}
	return nil
}

// tailLines returns the last n lines of r. n <= 0 returns every line.
func tailLines(r io.Reader, n int) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}
