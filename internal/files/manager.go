package files

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"unloadcli/pkg/contracts/domain"
)

// TemplateName is the blank import template created in an empty source
// directory.
const TemplateName = "modele_import.xlsx"

// Manager provides filesystem operations for the pipeline
type Manager struct{}

// NewManager creates a new file manager instance
func NewManager() *Manager {
	return &Manager{}
}

// EnsureDirectory creates a directory with all parent directories
func (m *Manager) EnsureDirectory(path string) error {
	slog.Debug("Ensuring directory exists", slog.String("path", path))
	return os.MkdirAll(path, 0755)
}

// ListWorkbooks returns the workbook files in dir, sorted by name. Office
// lock files ("~$...") and the import template are skipped.
func (m *Manager) ListWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			continue
		}
		if strings.HasPrefix(name, "~$") || name == TemplateName {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	slog.Debug("Workbook discovery",
		slog.String("dir", dir),
		slog.Int("count", len(files)))

	return files, nil
}

// CreateTemplate writes a blank import template into dir unless one already
// exists. The template carries only the header row with the expected source
// columns, measured water weight included.
func (m *Manager) CreateTemplate(dir string) (string, error) {
	if err := m.EnsureDirectory(dir); err != nil {
		return "", fmt.Errorf("failed to create template directory: %w", err)
	}

	path := filepath.Join(dir, TemplateName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	headers := []string{
		domain.ColWeighingStart,
		domain.ColWeighingEnd,
		domain.ColUnloadingStart,
		domain.ColUnloadingEnd,
		domain.ColVolumeInitial,
		domain.ColVolumeFinal,
		domain.ColWeightIn,
		domain.ColWeightOut,
		domain.ColWaterWeight,
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, name := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save template: %w", err)
	}

	slog.Info("Import template created", slog.String("path", path))
	return path, nil
}

// OpenInViewer opens a file in the platform default application. Best
// effort: callers log the error instead of failing the run.
func (m *Manager) OpenInViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
