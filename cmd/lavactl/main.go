// Package main provides lavactl, a command line client for an audio node's
// metadata endpoints.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lavaline/lavaline-go/internal/config"
	"github.com/lavaline/lavaline-go/pkg/lavaline"
	"github.com/lavaline/lavaline-go/pkg/protocol"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lavactl",
	Short: "Query an audio node's track metadata endpoints",
	Long:  "lavactl resolves track URLs, runs searches, and decodes track handles against a running audio node.",
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search YouTube through the node and list the results",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var loadCmd = &cobra.Command{
	Use:   "load <url-or-query>",
	Short: "Resolve a URL directly, or fall back to a search",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <handle> [handle...]",
	Short: "Decode one or more opaque track handles into metadata",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.AddCommand(searchCmd, loadCmd, decodeCmd)
}

// setup loads configuration and builds the REST collaborator.
func setup() (*lavaline.Rest, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return lavaline.NewRest(cfg.Node.Host, cfg.Node.Port, cfg.Node.Password, cfg.Node.Secure, log), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	rest, err := setup()
	if err != nil {
		return err
	}

	tracks, err := rest.SearchYouTube(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Println("No results.")
		return nil
	}

	printTracks(tracks)

	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	rest, err := setup()
	if err != nil {
		return err
	}

	response, err := rest.AutoLoadTracks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	if response.PlayList != nil {
		fmt.Printf("Playlist: %s (%d tracks)\n\n", response.PlayList.Name, len(response.PlayList.Tracks))
		printTracks(response.PlayList.Tracks)
		return nil
	}

	if len(response.Tracks) == 0 {
		fmt.Println("No results.")
		return nil
	}

	printTracks(response.Tracks)

	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	rest, err := setup()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		track, err := rest.DecodeTrack(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		printTracks([]protocol.Track{track})
		return nil
	}

	tracks, err := rest.DecodeTracks(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	printTracks(tracks)

	return nil
}

func printTracks(tracks []protocol.Track) {
	for i, track := range tracks {
		fmt.Printf("%2d. %s\n", i+1, track.Title)
		fmt.Printf("    by %s • %s • %s\n", track.Author, formatLength(track.Length), track.URI)
	}
}

func formatLength(ms int64) string {
	if ms <= 0 {
		return "live"
	}

	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
