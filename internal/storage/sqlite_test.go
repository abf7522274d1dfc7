package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordAndTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, g := range []struct{ score, tile int }{{100, 16}, {50, 8}, {200, 32}} {
		if err := store.RecordGame("alice", g.score, g.tile); err != nil {
			t.Fatalf("RecordGame() failed: %v", err)
		}
	}
	if err := store.RecordGame("bob", 500, 64); err != nil {
		t.Fatalf("RecordGame() failed: %v", err)
	}

	scores, err := store.TopScores("alice", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].MaxTile != 32 {
		t.Errorf("Expected max tile 32, got %d", scores[0].MaxTile)
	}

	seen := make(map[string]bool)
	for _, s := range scores {
		if s.RunID == "" || seen[s.RunID] {
			t.Errorf("run id %q empty or repeated", s.RunID)
		}
		seen[s.RunID] = true
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.RecordGame("test", (i+1)*100, 8)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for new player, got %d", high)
	}

	store.RecordGame("alice", 100, 8)
	store.RecordGame("alice", 300, 16)
	store.RecordGame("alice", 200, 16)

	high, err = store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if high, _ = store.HighScore("alice"); high != 300 {
		t.Errorf("HighScore after clear = %d, want 300", high)
	}

	// Looking up an unknown player must not add them to the leaderboard
	if _, err := store.HighScore("ghost"); err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	players, err := store.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(players) != 1 {
		t.Errorf("leaderboard has %d players, want 1", len(players))
	}
}

func TestStoreStatsMonotonic(t *testing.T) {
	store := openTestStore(t)

	store.RecordGame("alice", 1000, 128)
	store.RecordGame("alice", 400, 256)
	store.RecordGame("alice", 700, 64)

	st, err := store.UserStats("alice", "Alice")
	if err != nil {
		t.Fatalf("UserStats() failed: %v", err)
	}
	if st.HighScore != 1000 {
		t.Errorf("HighScore = %d, want 1000", st.HighScore)
	}
	if st.HighestTile != 256 {
		t.Errorf("HighestTile = %d, want 256", st.HighestTile)
	}
	if st.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", st.GamesPlayed)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreUserStatsCreatesRecord(t *testing.T) {
	store := openTestStore(t)

	st, err := store.UserStats("carol", "Carol")
	if err != nil {
		t.Fatalf("UserStats() failed: %v", err)
	}
	if st.Nickname != "Carol" || st.GamesPlayed != 0 || !st.ShowInLeaderboard {
		t.Errorf("new stats = %+v", st)
	}

	// Second call keeps the stored nickname
	st, err = store.UserStats("carol", "Other")
	if err != nil {
		t.Fatalf("UserStats() failed: %v", err)
	}
	if st.Nickname != "Carol" {
		t.Errorf("Nickname = %q, want Carol", st.Nickname)
	}
}

func TestStoreLeaderboardAndRank(t *testing.T) {
	store := openTestStore(t)

	store.RecordGame("alice", 300, 32)
	store.RecordGame("bob", 900, 128)
	store.RecordGame("carol", 600, 64)
	store.UserStats("dave", "dave") // never played

	board, err := store.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	want := []string{"bob", "carol", "alice", "dave"}
	if len(board) != len(want) {
		t.Fatalf("Leaderboard len = %d, want %d", len(board), len(want))
	}
	for i, id := range want {
		if board[i].Identity != id {
			t.Errorf("Leaderboard[%d] = %s, want %s", i, board[i].Identity, id)
		}
	}

	tests := []struct {
		identity string
		rank     int
	}{
		{"bob", 1},
		{"carol", 2},
		{"alice", 3},
		{"dave", 0},
		{"nobody", 0},
	}
	for _, tt := range tests {
		rank, total, err := store.Rank(tt.identity)
		if err != nil {
			t.Fatalf("Rank(%s) failed: %v", tt.identity, err)
		}
		if rank != tt.rank {
			t.Errorf("Rank(%s) = %d, want %d", tt.identity, rank, tt.rank)
		}
		if total != 3 {
			t.Errorf("Rank(%s) total = %d, want 3", tt.identity, total)
		}
	}
}

func TestStoreUpdateProfileHidesPlayer(t *testing.T) {
	store := openTestStore(t)

	store.RecordGame("alice", 300, 32)
	store.RecordGame("bob", 900, 128)

	if err := store.UpdateProfile("bob", "Bobby", false); err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}

	board, err := store.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(board) != 1 || board[0].Identity != "alice" {
		t.Errorf("hidden player still listed: %+v", board)
	}

	st, _ := store.UserStats("bob", "")
	if st.Nickname != "Bobby" || st.ShowInLeaderboard {
		t.Errorf("profile = %+v", st)
	}
}

func TestStoreRecordGameRequiresIdentity(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordGame("", 10, 4); err == nil {
		t.Error("RecordGame with empty identity should fail")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.RecordGame("alice", 100, 8)
	store.RecordGame("alice", 200, 16)
	store.RecordGame("bob", 300, 32)

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	aliceScores, _ := store.TopScores("alice", 10)
	if len(aliceScores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(aliceScores))
	}

	bobScores, _ := store.TopScores("bob", 10)
	if len(bobScores) != 1 {
		t.Errorf("Other players should not be affected by clearing alice")
	}

	// Aggregated stats survive
	st, _ := store.UserStats("alice", "")
	if st.HighScore != 200 {
		t.Errorf("HighScore after clear = %d, want 200", st.HighScore)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
