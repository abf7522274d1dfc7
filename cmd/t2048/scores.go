package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresLimit  int
	flagNickname     string
	flagHide         bool
	flagShow         bool
	flagClear        bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top players by high score. With --player, also show that
player's rank and best games.

Profile changes:
  --nickname sets the name shown on the leaderboard
  --hide / --show remove or restore the player on the leaderboard
  --clear deletes the player's game history (best score and totals stay)

Examples:
  t2048 scores
  t2048 scores --player alice
  t2048 scores --player alice --nickname "Alice B."
  t2048 scores --player engine --hide
  t2048 scores --player engine --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show rank and best games for this player")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().StringVar(&flagNickname, "nickname", "", "Set the player's nickname (needs --player)")
	scoresCmd.Flags().BoolVar(&flagHide, "hide", false, "Hide the player from the leaderboard (needs --player)")
	scoresCmd.Flags().BoolVar(&flagShow, "show", false, "Show the player on the leaderboard (needs --player)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the player's game history (needs --player)")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	if (flagNickname != "" || flagHide || flagShow || flagClear) && flagScoresPlayer == "" {
		fmt.Fprintln(os.Stderr, "Error: --nickname, --hide, --show and --clear need --player")
		os.Exit(1)
	}
	if flagHide && flagShow {
		fmt.Fprintln(os.Stderr, "Error: --hide and --show are exclusive")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening stats database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresPlayer != "" && (flagNickname != "" || flagHide || flagShow) {
		if err := updateProfile(store, flagScoresPlayer); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating profile: %v\n", err)
			os.Exit(1)
		}
	}

	if flagClear {
		if err := store.ClearScores(flagScoresPlayer); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared game history of %s\n\n", flagScoresPlayer)
	}

	players, err := store.Leaderboard(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving leaderboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	fmt.Println()

	if len(players) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %-5s  %s\n", "Rank", "Player", "Best", "Tile", "Games", "Last played")
		fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %-5s  %s\n", "----", "------", "----", "----", "-----", "-----------")
		for i, p := range players {
			name := p.Nickname
			if name == "" {
				name = p.Identity
			}
			fmt.Printf("  %-4d  %-20s  %-8d  %-6d  %-5d  %s\n",
				i+1, name, p.HighScore, p.HighestTile, p.GamesPlayed, p.LastPlayed.Format("2006-01-02 15:04"))
		}
	}

	if flagScoresPlayer != "" {
		printPlayer(store, flagScoresPlayer)
	}
}

// updateProfile applies the nickname and visibility flags.
func updateProfile(store *storage.Store, identity string) error {
	st, err := store.UserStats(identity, identity)
	if err != nil {
		return err
	}
	nickname := st.Nickname
	if flagNickname != "" {
		nickname = flagNickname
	}
	show := st.ShowInLeaderboard
	switch {
	case flagHide:
		show = false
	case flagShow:
		show = true
	}
	return store.UpdateProfile(identity, nickname, show)
}

// printPlayer prints one player's rank and best games.
func printPlayer(store *storage.Store, identity string) {
	fmt.Println()

	rank, total, err := store.Rank(identity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rank: %v\n", err)
		os.Exit(1)
	}
	if rank == 0 {
		fmt.Printf("%s has no finished games.\n", identity)
		return
	}
	fmt.Printf("%s is #%d of %d\n", identity, rank, total)
	fmt.Println()

	games, err := store.TopScores(identity, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "#", "Score", "Tile", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "-", "-----", "----", "----")
	for i, g := range games {
		fmt.Printf("  %-4d  %-10d  %-6d  %s\n", i+1, g.Score, g.MaxTile, g.CreatedAt.Format("2006-01-02 15:04"))
	}
}
