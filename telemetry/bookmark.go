package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkClothUnstable  BookmarkType = "cloth_unstable"
	BookmarkClothSettled   BookmarkType = "cloth_settled"
	BookmarkRespawnSurge   BookmarkType = "respawn_surge"
	BookmarkFieldsRejected BookmarkType = "fields_rejected"
)

// Detection thresholds.
const (
	unstableEnergyFactor = 10.0 // cloth energy vs rolling mean
	settledEnergy        = 1e-3 // cloth energy per window considered at rest
	settledWindows       = 3
	respawnSurgeFactor   = 2.0
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows: a cloth that blows up or comes to
// rest, bursts of particle respawns, and rejected field additions.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	settledCount int  // consecutive windows with the cloth at rest
	settled      bool // a settled bookmark was emitted for the current rest period
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkClothUnstable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkClothSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkRespawnSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.Rejected > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFieldsRejected,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d force fields rejected at capacity", stats.Rejected),
		})
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkClothUnstable(stats WindowStats) *Bookmark {
	e := stats.ClothEnergy
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return &Bookmark{
			Type:        BookmarkClothUnstable,
			Tick:        stats.WindowEndTick,
			Description: "cloth energy is not finite",
		}
	}

	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var sum float64
	for _, h := range history {
		sum += h.ClothEnergy
	}
	avg := sum / float64(len(history))
	if avg > 0 && e > avg*unstableEnergyFactor {
		return &Bookmark{
			Type:        BookmarkClothUnstable,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("cloth energy %.3g vs %.3g average", e, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkClothSettled(stats WindowStats) *Bookmark {
	if stats.Wind || stats.ClothEnergy > settledEnergy {
		bd.settledCount = 0
		bd.settled = false
		return nil
	}

	bd.settledCount++
	if bd.settledCount < settledWindows || bd.settled {
		return nil
	}
	bd.settled = true
	return &Bookmark{
		Type:        BookmarkClothSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("cloth at rest for %d windows", bd.settledCount),
	}
}

func (bd *BookmarkDetector) checkRespawnSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var sum int
	for _, h := range history {
		sum += h.Respawns
	}
	avg := float64(sum) / float64(len(history))
	if avg > 0 && float64(stats.Respawns) > avg*respawnSurgeFactor {
		return &Bookmark{
			Type:        BookmarkRespawnSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d respawns vs %.1f average", stats.Respawns, avg),
		}
	}
	return nil
}
