package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if maxLines <= 0 {
		var lines []string
		err := scanLines(file, func(line string) { lines = append(lines, line) })
		return lines, err
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	err = scanLines(file, func(line string) {
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	})
	if err != nil {
		return nil, err
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Follow returns the complete lines written to path after offset, and the
// offset to pass on the next call. A trailing partial line is left for later.
// When the file has shrunk below offset it is treated as rotated and read from
// the start.
func Follow(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return nil, offset, nil
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, info.Size()-offset))
	if err != nil {
		return nil, offset, fmt.Errorf("read log: %w", err)
	}
	end := strings.LastIndexByte(string(data), '\n')
	if end < 0 {
		return nil, offset, nil
	}
	chunk := string(data[:end])
	return strings.Split(chunk, "\n"), offset + int64(end) + 1, nil
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	return nil
}

// Tail returns the complete lines in the last maxBytes of path and the offset
// to continue from with Follow.
func Tail(path string, maxBytes int64) ([]string, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("stat log: %w", err)
	}
	start := int64(0)
	if maxBytes > 0 && info.Size() > maxBytes {
		start = info.Size() - maxBytes
	}
	lines, offset, err := Follow(path, start)
	if err != nil {
		return nil, 0, err
	}
	if start > 0 && len(lines) > 0 {
		// The first line was cut by the window.
		lines = lines[1:]
	}
	return lines, offset, nil
}
