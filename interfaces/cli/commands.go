package cli

import (
	"fmt"
	"strconv"
	"time"

	"tubemetrics/domain/model"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authExchangeCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)

	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(categoriesCmd)

	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageRecordCmd)
	usageCmd.AddCommand(usageReportCmd)
	usageCmd.AddCommand(usageResetCmd)

	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(errorsCmd)

	recommendCmd.Flags().Bool("personalized", false, "Blend the top three history categories instead of the single most frequent")
	usageRecordCmd.Flags().Int("videos", 1, "Videos watched to record alongside the minutes")
	usageReportCmd.Flags().String("start", "", "Range start (YYYY-MM-DD), default 30 days ago")
	usageReportCmd.Flags().String("end", "", "Range end (YYYY-MM-DD), default today")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the provider login",
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the consent URL to open in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(deps.Auth.BuildAuthorizationURL())
		return nil
	},
}

var authExchangeCmd = &cobra.Command{
	Use:   "exchange [code]",
	Short: "Trade the authorization code from the consent redirect for tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cred, err := deps.Auth.ExchangeCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Authenticated. Access token valid until %s.\n", cred.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a usable credential is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		if deps.Auth.IsAuthenticated(cmd.Context()) {
			fmt.Println("authenticated")
		} else {
			fmt.Println("not authenticated")
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		return deps.Auth.Logout(cmd.Context())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := deps.Catalog.GetWatchHistory(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(history)
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an entry from the watch history (best effort)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deps.Catalog.RemoveFromHistory(cmd.Context(), args[0])
	},
}

var videoCmd = &cobra.Command{
	Use:   "video [id]",
	Short: "Show details for one video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		video, err := deps.Catalog.GetVideoDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(video)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend videos from your watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		personalized, _ := cmd.Flags().GetBool("personalized")
		var (
			videos []model.VideoSummary
			err    error
		)
		if personalized {
			videos, err = deps.Catalog.GetPersonalizedRecommendations(cmd.Context())
		} else {
			videos, err = deps.Catalog.GetRecommendations(cmd.Context())
		}
		if err != nil {
			return err
		}
		return printJSON(videos)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the provider's video categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := deps.Catalog.GetVideoCategories(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(categories)
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Record and report playback usage",
}

var usageRecordCmd = &cobra.Command{
	Use:   "record [minutes]",
	Short: "Record watch minutes for today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("minutes must be an integer: %q", args[0])
		}
		videos, _ := cmd.Flags().GetInt("videos")
		stats, err := deps.Analytics.RecordUsage(cmd.Context(), minutes, videos)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var usageReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report usage over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		end := time.Now()
		start := end.AddDate(0, 0, -30)
		if v, _ := cmd.Flags().GetString("start"); v != "" {
			parsed, err := time.Parse(model.UsageDateLayout, v)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", v, err)
			}
			start = parsed
		}
		if v, _ := cmd.Flags().GetString("end"); v != "" {
			parsed, err := time.Parse(model.UsageDateLayout, v)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", v, err)
			}
			end = parsed
		}

		days, err := deps.Analytics.GetRange(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		report := struct {
			Days             []model.UsageDay `json:"days"`
			TotalWatchTime   int              `json:"total_watch_time"`
			TotalVideos      int              `json:"total_videos"`
			AverageWatchTime float64          `json:"average_watch_time"`
		}{
			Days:             days,
			TotalWatchTime:   model.TotalWatchTime(days),
			TotalVideos:      model.TotalVideos(days),
			AverageWatchTime: model.AverageWatchTime(days),
		}
		return printJSON(report)
	},
}

var usageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all usage data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return deps.Analytics.Reset(cmd.Context())
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached API responses",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Evict every cached API response",
	RunE: func(cmd *cobra.Command, args []string) error {
		return deps.Catalog.ClearCache(cmd.Context())
	},
}

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show the diagnostic error log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := deps.ErrorLog.Entries(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}
