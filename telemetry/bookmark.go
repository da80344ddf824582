package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHumansExtinct  BookmarkType = "humans_extinct"
	BookmarkZombiesExtinct BookmarkType = "zombies_extinct"
	BookmarkOutbreakPeak   BookmarkType = "outbreak_peak"
	BookmarkHumanCrash     BookmarkType = "human_crash"
	BookmarkStalemate      BookmarkType = "stalemate"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Dispatch    int32        `csv:"dispatch" json:"dispatch"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"dispatch", b.Dispatch,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in an outbreak.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	humansGone         bool
	zombiesGone        bool
	zombiePeak         int64 // highest zombie population seen since last peak bookmark
	zombieFalling      int   // consecutive windows below the peak
	recentHumanPeak    int64
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stalemate detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Outbreak peak: zombies fall for 2 windows after a new high
		if b := bd.checkOutbreakPeak(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Human crash: dropped >30% from recent peak
		if b := bd.checkHumanCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stalemate: both sides present with low variance over 5+ windows
		if b := bd.checkStalemate(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.HumanPop > bd.recentHumanPeak {
		bd.recentHumanPeak = stats.HumanPop
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

// checkExtinction fires once per side when its population first reaches zero.
// A side that comes back (through an edit) re-arms the bookmark.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	var b *Bookmark
	switch {
	case stats.HumanPop == 0 && !bd.humansGone && stats.ZombiePop > 0:
		bd.humansGone = true
		b = &Bookmark{
			Type:        BookmarkHumansExtinct,
			Dispatch:    stats.WindowEnd,
			Description: fmt.Sprintf("Humans extinct, %d zombies remain", stats.ZombiePop),
		}
	case stats.ZombiePop == 0 && !bd.zombiesGone && stats.HumanPop > 0:
		bd.zombiesGone = true
		b = &Bookmark{
			Type:        BookmarkZombiesExtinct,
			Dispatch:    stats.WindowEnd,
			Description: fmt.Sprintf("Zombies extinct, %d humans remain", stats.HumanPop),
		}
	}
	if stats.HumanPop > 0 {
		bd.humansGone = false
	}
	if stats.ZombiePop > 0 {
		bd.zombiesGone = false
	}
	return b
}

func (bd *BookmarkDetector) checkOutbreakPeak(stats WindowStats) *Bookmark {
	if stats.ZombiePop > bd.zombiePeak {
		bd.zombiePeak = stats.ZombiePop
		bd.zombieFalling = 0
		return nil
	}
	if bd.zombiePeak == 0 {
		return nil
	}

	bd.zombieFalling++
	if bd.zombieFalling == 2 {
		peak := bd.zombiePeak
		return &Bookmark{
			Type:        BookmarkOutbreakPeak,
			Dispatch:    stats.WindowEnd,
			Description: fmt.Sprintf("Zombie population peaked at %d, now %d", peak, stats.ZombiePop),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHumanCrash(stats WindowStats) *Bookmark {
	if bd.recentHumanPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.HumanPop)/float64(bd.recentHumanPeak)
	if dropPercent > 0.30 && stats.HumanPop < bd.recentHumanPeak-100 {
		// Reset peak after crash
		oldPeak := bd.recentHumanPeak
		bd.recentHumanPeak = stats.HumanPop

		return &Bookmark{
			Type:        BookmarkHumanCrash,
			Dispatch:    stats.WindowEnd,
			Description: fmt.Sprintf("Humans crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.HumanPop),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	if stats.HumanPop < 100 || stats.ZombiePop < 100 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}
	recent := history[len(history)-4:]

	var humanSum, zombieSum float64
	for _, h := range recent {
		humanSum += float64(h.HumanPop)
		zombieSum += float64(h.ZombiePop)
	}
	humanMean := humanSum / 4
	zombieMean := zombieSum / 4

	var humanVar, zombieVar float64
	for _, h := range recent {
		hd := float64(h.HumanPop) - humanMean
		zd := float64(h.ZombiePop) - zombieMean
		humanVar += hd * hd
		zombieVar += zd * zd
	}
	humanVar /= 4
	zombieVar /= 4

	humanCV := 0.0
	if humanMean > 0 {
		humanCV = humanVar / (humanMean * humanMean)
	}
	zombieCV := 0.0
	if zombieMean > 0 {
		zombieCV = zombieVar / (zombieMean * zombieMean)
	}

	if humanCV < 0.04 && zombieCV < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStalemate,
			Dispatch:    stats.WindowEnd,
			Description: fmt.Sprintf("Stalemate with %d humans, %d zombies over 5+ windows", stats.HumanPop, stats.ZombiePop),
		}
	}

	return nil
}
