package checks

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"media-catalog/feature/catalog"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Marker problems.
const (
	MarkerMissing     = "missing"
	MarkerMismatch    = "mismatch"
	MarkerUnreachable = "unreachable"
)

// MarkerIssue is a registered media path whose metadata marker is wrong.
type MarkerIssue struct {
	Library string `json:"library"`
	Sector  string `json:"sector"`
	Path    string `json:"path"`
	Problem string `json:"problem"`
	// Found is the sector named by a mismatching marker.
	Found string `json:"found,omitempty"`
}

// CheckMarkers verifies that every registered media path carries a marker
// naming its sector. Media that are not mounted are reported as unreachable.
func CheckMarkers(media afero.Fs, metadataName string, reg *catalog.Registry) ([]MarkerIssue, error) {
	var issues []MarkerIssue

	for _, library := range reg.LibraryNames() {
		lib := reg.Libraries[library]
		for _, sector := range lib.SectorNames() {
			for _, mediaPath := range lib.Sectors[sector] {
				issue := MarkerIssue{Library: library, Sector: sector, Path: mediaPath}

				if ok, _ := afero.DirExists(media, mediaPath); !ok {
					issue.Problem = MarkerUnreachable
					issues = append(issues, issue)
					continue
				}

				data, err := afero.ReadFile(media, filepath.Join(mediaPath, metadataName))
				switch {
				case errors.Is(err, fs.ErrNotExist):
					issue.Problem = MarkerMissing
				case err != nil:
					return nil, err
				case strings.TrimSpace(string(data)) != sector:
					issue.Problem = MarkerMismatch
					issue.Found = strings.TrimSpace(string(data))
				default:
					continue
				}
				issues = append(issues, issue)
			}
		}
	}

	return issues, nil
}

// FixMarkers rewrites missing and mismatching markers. Unreachable media are
// left alone.
func FixMarkers(media afero.Fs, metadataName string, logger *zap.Logger, issues []MarkerIssue) error {
	for _, issue := range issues {
		if issue.Problem == MarkerUnreachable {
			logger.Warn("Skipping unreachable media", zap.String("path", issue.Path))
			continue
		}
		marker := filepath.Join(issue.Path, metadataName)
		if err := afero.WriteFile(media, marker, []byte(issue.Sector), 0o644); err != nil {
			logger.Error("Failed to write marker", zap.String("path", marker), zap.Error(err))
			return err
		}
		logger.Info("Rewrote marker", zap.String("path", marker), zap.String("sector", issue.Sector))
	}
	return nil
}
