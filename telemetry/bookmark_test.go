package telemetry

import (
	"math"
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ClothUnstable(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), ClothEnergy: 1, Wind: true})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, ClothEnergy: 50, Wind: true})
	if !hasBookmark(bookmarks, BookmarkClothUnstable) {
		t.Error("expected cloth_unstable bookmark for energy spike")
	}

	// Non-finite energy triggers without history
	fresh := NewBookmarkDetector(10)
	if !hasBookmark(fresh.Check(WindowStats{ClothEnergy: math.NaN()}), BookmarkClothUnstable) {
		t.Error("expected cloth_unstable bookmark for NaN energy")
	}
}

func TestBookmarkDetector_ClothSettledOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 6; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 300), ClothEnergy: 1e-5})
		if hasBookmark(bookmarks, BookmarkClothSettled) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one cloth_settled bookmark, got %d", count)
	}

	// Wind resets the rest period
	bd.Check(WindowStats{WindowEndTick: 1800, ClothEnergy: 1e-5, Wind: true})
	for i := 0; i < 3; i++ {
		if hasBookmark(bd.Check(WindowStats{ClothEnergy: 1e-5}), BookmarkClothSettled) {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected a second cloth_settled bookmark after wind, got %d total", count)
	}
}

func TestBookmarkDetector_RespawnSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), Respawns: 100, Wind: true, ClothEnergy: 1})
	}
	if hasBookmark(bd.Check(WindowStats{Respawns: 150, Wind: true, ClothEnergy: 1}), BookmarkRespawnSurge) {
		t.Error("did not expect surge at 1.5x average")
	}
	if !hasBookmark(bd.Check(WindowStats{Respawns: 500, Wind: true, ClothEnergy: 1}), BookmarkRespawnSurge) {
		t.Error("expected respawn_surge bookmark")
	}
}

func TestBookmarkDetector_FieldsRejected(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bookmarks := bd.Check(WindowStats{WindowEndTick: 60, Rejected: 2, Wind: true, ClothEnergy: 1})
	if !hasBookmark(bookmarks, BookmarkFieldsRejected) {
		t.Fatal("expected fields_rejected bookmark")
	}
	if len(bookmarks) != 1 {
		t.Errorf("expected only the rejection bookmark, got %v", bookmarks)
	}
}
