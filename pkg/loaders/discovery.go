package loaders

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProblemInfo describes a problem file found on disk
type ProblemInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Format      Format `json:"format"`
	Histories   uint64 `json:"histories"`
	Description string `json:"description"` // header comment of the file
}

// DiscoverProblems scans dir for YAML and TOML problem files. Files that do
// not parse are logged and skipped.
func DiscoverProblems(dir string, logger *slog.Logger) ([]ProblemInfo, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan problem directory: %w", err)
	}

	var problems []ProblemInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := FormatFromPath(path); err != nil {
			continue
		}

		info, err := ReadProblemInfo(path)
		if err != nil {
			logger.Warn("skipping problem file", "path", path, "error", err)
			continue
		}
		problems = append(problems, info)
	}

	sort.Slice(problems, func(i, j int) bool {
		if problems[i].Name != problems[j].Name {
			return problems[i].Name < problems[j].Name
		}
		return problems[i].Path < problems[j].Path
	})
	return problems, nil
}

// ReadProblemInfo parses a problem file and its leading comment block
func ReadProblemInfo(path string) (ProblemInfo, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return ProblemInfo{}, err
	}
	format, _ := FormatFromPath(path)

	description, err := headerComment(path)
	if err != nil {
		return ProblemInfo{}, err
	}

	return ProblemInfo{
		Name:        doc.Name,
		Path:        path,
		Format:      format,
		Histories:   doc.Histories,
		Description: description,
	}, nil
}

// headerComment joins the '#' lines at the top of a file. YAML and TOML
// share the comment syntax.
func headerComment(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	return strings.Join(lines, " "), scanner.Err()
}
