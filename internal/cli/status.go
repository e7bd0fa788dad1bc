package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/visionquantech/youdao/internal/app/core"
	"github.com/visionquantech/youdao/internal/daemon"
	"github.com/visionquantech/youdao/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("addr", "", "Node address (default from config)")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running node",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		cfg, err := daemon.Load()
		if err != nil {
			return err
		}
		addr = fmt.Sprintf("http://%s:%d", cfg.API.Host, cfg.API.Port)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(addr + "/api/stats")
	if err != nil {
		return fmt.Errorf("node unreachable at %s: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned %s", resp.Status)
	}

	var stats core.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}

	fmt.Printf("Authority:   %s (founder active: %v)\n", stats.AuthorityMode, stats.FounderActive)
	fmt.Printf("Proposals:   %d total, %d active, %d executed\n",
		stats.TotalProposals, stats.ActiveProposals, stats.ExecutedProposals)
	fmt.Printf("Votes cast:  %d\n", stats.TotalVotesCast)
	fmt.Printf("Decisions:   %d (approval %.0f%%, avg confidence %.0f)\n",
		stats.TotalDecisions, stats.ApprovalRate*100, stats.AvgConfidence)
	fmt.Printf("Staked:      %s by %d accounts\n", domain.FormatAmount(stats.TotalStaked), stats.Stakers)
	fmt.Printf("Treasury:    %s\n", domain.FormatAmount(stats.TreasuryBalance))
	fmt.Printf("Licenses:    %d total, %d active, %s royalties\n",
		stats.TotalLicenses, stats.ActiveLicenses, domain.FormatAmount(stats.TotalRoyalties))
	fmt.Printf("Successors:  %d registered, %d certified\n", stats.TotalSuccessors, stats.CertifiedSuccessors)
	return nil
}
